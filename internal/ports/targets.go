package ports

import "ros-cross-compile/internal/types"

// TargetTablesPort layers targets.yaml files over a base set of target
// tables. Later files override earlier ones per key.
type TargetTablesPort interface {
	LoadTargets(base types.TargetTables, paths []string) (types.TargetTables, error)
}
