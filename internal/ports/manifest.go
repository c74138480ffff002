package ports

import "ros-cross-compile/internal/types"

type PackageManifestPort interface {
	ReadManifests(paths []string) ([]types.PackageManifest, error)
}
