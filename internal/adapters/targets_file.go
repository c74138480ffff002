package adapters

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/types"
)

// TargetTablesFileAdapter implements TargetTablesPort using layered
// targets.yaml files. Architectures and per-distro OS mappings are
// replaced key by key; distro lists are merged. A distro named by a later
// layer moves to that layer's track.
type TargetTablesFileAdapter struct{}

func NewTargetTablesFileAdapter() TargetTablesFileAdapter {
	return TargetTablesFileAdapter{}
}

func (a TargetTablesFileAdapter) LoadTargets(base types.TargetTables, paths []string) (types.TargetTables, error) {
	merged := cloneTargetTables(base)
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		layer, err := readTargetTablesFile(path)
		if err != nil {
			return types.TargetTables{}, err
		}
		mergeTargetLayer(&merged, layer, path)
	}
	return merged, nil
}

func readTargetTablesFile(path string) (types.TargetTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TargetTables{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read targets file: " + path).
			WithCause(err)
	}
	var file types.TargetTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.TargetTables{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse targets file: " + path).
			WithCause(err)
	}
	if file.SchemaVersion == "" {
		return types.TargetTables{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("targets file missing schema_version: " + path)
	}
	for _, distro := range file.Targets.ROS2Distros {
		if slices.Contains(file.Targets.ROSDistros, distro) {
			return types.TargetTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("targets file %s lists ROS distro %s in both ros and ros2 tracks", path, distro))
		}
	}
	return file.Targets, nil
}

func mergeTargetLayer(merged *types.TargetTables, layer types.TargetTables, path string) {
	for arch, support := range layer.Architectures {
		arch = strings.TrimSpace(arch)
		if arch == "" {
			continue
		}
		if _, exists := merged.Architectures[arch]; exists {
			log.Debug().
				Str("arch", arch).
				Str("layer", path).
				Msg("architecture overridden by later layer")
		}
		merged.Architectures[arch] = support
	}
	for _, distro := range layer.ROS2Distros {
		merged.ROSDistros = removeString(merged.ROSDistros, distro)
		if !slices.Contains(merged.ROS2Distros, distro) {
			merged.ROS2Distros = append(merged.ROS2Distros, distro)
		}
	}
	for _, distro := range layer.ROSDistros {
		merged.ROS2Distros = removeString(merged.ROS2Distros, distro)
		if !slices.Contains(merged.ROSDistros, distro) {
			merged.ROSDistros = append(merged.ROSDistros, distro)
		}
	}
	for distro, mapping := range layer.OSMapping {
		if merged.OSMapping[distro] == nil {
			merged.OSMapping[distro] = map[string]string{}
		}
		for osName, codename := range mapping {
			merged.OSMapping[distro][osName] = codename
		}
	}
	log.Debug().
		Str("path", path).
		Int("architectures", len(merged.Architectures)).
		Int("distros", len(merged.ROS2Distros)+len(merged.ROSDistros)).
		Msg("targets layer loaded")
}

func cloneTargetTables(tables types.TargetTables) types.TargetTables {
	clone := types.TargetTables{
		Architectures: make(map[string]types.ArchitectureSupport, len(tables.Architectures)),
		ROS2Distros:   slices.Clone(tables.ROS2Distros),
		ROSDistros:    slices.Clone(tables.ROSDistros),
		OSMapping:     make(map[string]map[string]string, len(tables.OSMapping)),
	}
	for arch, support := range tables.Architectures {
		clone.Architectures[arch] = support
	}
	for distro, mapping := range tables.OSMapping {
		inner := make(map[string]string, len(mapping))
		for osName, codename := range mapping {
			inner[osName] = codename
		}
		clone.OSMapping[distro] = inner
	}
	return clone
}

func removeString(values []string, value string) []string {
	return slices.DeleteFunc(values, func(candidate string) bool {
		return candidate == value
	})
}

var _ ports.TargetTablesPort = TargetTablesFileAdapter{}
