package app

import (
	"ros-cross-compile/internal/core"
	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/types"
)

type PlatformRequest struct {
	Arch              string
	OSName            string
	ROSDistro         string
	OverrideBaseImage string
	TargetFiles       []string
}

type PlatformResult struct {
	Platform       core.Platform
	OCIPlatform    string
	RosdepImageTag string
}

type GatherRequest struct {
	Platform  core.Platform
	Workspace string
	DockerDir string
	// Progress receives every engine event; nil discards them.
	Progress ports.ProgressSinkPort
}

type GatherResult struct {
	ImageTag   string
	BaseImage  string
	Packages   []string
	RosdepKeys []string
	Events     int
}

type TargetsRequest struct {
	TargetFiles []string
}

type TargetArchitecture struct {
	Name string
	types.ArchitectureSupport
}

type TargetDistro struct {
	Name    string
	Version types.ROSVersion
	// OSReleases maps OS name to release codename.
	OSReleases map[string]string
}

type TargetsResult struct {
	Tables        types.TargetTables
	Architectures []TargetArchitecture
	Distros       []TargetDistro
}
