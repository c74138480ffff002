package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/containerd/platforms"
	"github.com/distribution/reference"

	"ros-cross-compile/internal/shared"
	"ros-cross-compile/internal/types"
)

// NOTE: when changing the default tables, update the Supported Targets
// section of README.md.

// DefaultTargetTables returns a fresh copy of the built-in supported
// targets. Callers may mutate the result.
func DefaultTargetTables() types.TargetTables {
	return types.TargetTables{
		Architectures: map[string]types.ArchitectureSupport{
			"armhf": {
				Toolchain: "arm-linux-gnueabihf",
				DockerOrg: "arm32v7",
				Platform:  "linux/arm/v7",
			},
			"aarch64": {
				Toolchain: "aarch64-linux-gnu",
				DockerOrg: "arm64v8",
				Platform:  "linux/arm64/v8",
			},
		},
		ROS2Distros: []string{"dashing", "eloquent"},
		ROSDistros:  []string{"kinetic", "melodic"},
		OSMapping: map[string]map[string]string{
			"kinetic": {
				"ubuntu": "xenial",
				"debian": "jessie",
			},
			"melodic": {
				"ubuntu": "bionic",
				"debian": "stretch",
			},
			"dashing": {
				"ubuntu": "bionic",
				"debian": "stretch",
			},
			"eloquent": {
				"ubuntu": "bionic",
				"debian": "buster",
			},
		},
	}
}

// ROSVersionFor classifies distro into its middleware version track.
// The modern list is consulted first.
func ROSVersionFor(tables types.TargetTables, distro string) (types.ROSVersion, bool) {
	if slices.Contains(tables.ROS2Distros, distro) {
		return types.ROSVersionModern, true
	}
	if slices.Contains(tables.ROSDistros, distro) {
		return types.ROSVersionLegacy, true
	}
	return "", false
}

// ValidateTargetTables checks that the tables are internally consistent:
// every architecture has a toolchain and docker organisation, no distro
// belongs to both version tracks, every listed distro has at least one OS
// mapping, and every derivable image name is a valid reference.
func ValidateTargetTables(tables types.TargetTables) error {
	if len(tables.Architectures) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target tables define no architectures")
	}
	for _, arch := range shared.SortedKeys(tables.Architectures) {
		support := tables.Architectures[arch]
		if strings.TrimSpace(support.Toolchain) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("architecture %s missing toolchain", arch))
		}
		if strings.TrimSpace(support.DockerOrg) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("architecture %s missing docker_org", arch))
		}
		if support.Platform != "" {
			if _, err := platforms.Parse(support.Platform); err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("architecture %s has invalid platform %s", arch, support.Platform)).
					WithCause(err)
			}
		}
	}
	for _, distro := range tables.ROS2Distros {
		if slices.Contains(tables.ROSDistros, distro) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("ROS distro %s listed in both ros and ros2 tracks", distro))
		}
	}
	for _, distro := range append(append([]string{}, tables.ROS2Distros...), tables.ROSDistros...) {
		mapping := tables.OSMapping[distro]
		if len(mapping) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("ROS distro %s has no OS mapping", distro))
		}
		for _, osName := range shared.SortedKeys(mapping) {
			for _, arch := range shared.SortedKeys(tables.Architectures) {
				image := fmt.Sprintf("%s/%s:%s", tables.Architectures[arch].DockerOrg, osName, mapping[osName])
				if _, err := reference.ParseNormalizedNamed(image); err != nil {
					return errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg(fmt.Sprintf("ROS distro %s derives invalid image %s", distro, image)).
						WithCause(err)
				}
			}
		}
	}
	return nil
}
