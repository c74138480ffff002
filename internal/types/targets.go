package types

// ArchitectureSupport describes how a target CPU architecture is built
// for: the cross-compilation toolchain triple, the docker hub organisation
// publishing images for that architecture, and the OCI platform string of
// those images.
type ArchitectureSupport struct {
	Toolchain string `yaml:"toolchain"`
	DockerOrg string `yaml:"docker_org"`
	Platform  string `yaml:"platform,omitempty"`
}

// TargetTables is the static configuration every platform descriptor is
// validated and derived against.
//
// OSMapping is keyed by ROS distribution, then by OS name, and yields the
// OS release codename (e.g. melodic -> ubuntu -> bionic).
type TargetTables struct {
	Architectures map[string]ArchitectureSupport `yaml:"architectures"`
	ROS2Distros   []string                       `yaml:"ros2_distros"`
	ROSDistros    []string                       `yaml:"ros_distros"`
	OSMapping     map[string]map[string]string   `yaml:"os_mapping"`
}

// TargetTablesFile is the top-level structure of a targets.yaml file.
// Files are layered over the built-in tables: architectures and OS
// mappings replace per key, distro lists are merged.
type TargetTablesFile struct {
	SchemaVersion string       `yaml:"schema_version"`
	Targets       TargetTables `yaml:"targets"`
}
