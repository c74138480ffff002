package types

// PackageManifest is the part of a ROS package.xml the gatherer reports
// on: the package name and the rosdep keys it declares.
type PackageManifest struct {
	Path       string
	Name       string
	Format     string
	ROSDepKeys []string
}
