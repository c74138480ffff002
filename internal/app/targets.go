package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"ros-cross-compile/internal/core"
	"ros-cross-compile/internal/shared"
	"ros-cross-compile/internal/types"
)

// Targets returns the effective supported-target tables: the built-in
// defaults with every targets file layered on top, validated.
func (s Service) Targets(ctx context.Context, req TargetsRequest) (TargetsResult, error) {
	tables, err := s.loadTargets(ctx, req.TargetFiles)
	if err != nil {
		return TargetsResult{}, err
	}
	result := TargetsResult{Tables: tables}
	for _, name := range shared.SortedKeys(tables.Architectures) {
		result.Architectures = append(result.Architectures, TargetArchitecture{
			Name:                name,
			ArchitectureSupport: tables.Architectures[name],
		})
	}
	for _, name := range shared.SortedKeys(tables.OSMapping) {
		version, ok := core.ROSVersionFor(tables, name)
		if !ok {
			continue
		}
		result.Distros = append(result.Distros, TargetDistro{
			Name:       name,
			Version:    version,
			OSReleases: tables.OSMapping[name],
		})
	}
	return result, nil
}

func (s Service) loadTargets(ctx context.Context, files []string) (types.TargetTables, error) {
	tables := core.DefaultTargetTables()
	if len(files) > 0 {
		loaded, err := s.TargetSource.LoadTargets(tables, files)
		if err != nil {
			return types.TargetTables{}, err
		}
		tables = loaded
		log.Ctx(ctx).Debug().Strs("files", files).Msg("target tables layered")
	}
	if err := core.ValidateTargetTables(tables); err != nil {
		return types.TargetTables{}, err
	}
	return tables, nil
}
