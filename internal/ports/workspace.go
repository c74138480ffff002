package ports

// WorkspacePort discovers ROS package manifests (package.xml) within a
// workspace root.
type WorkspacePort interface {
	FindPackageXML(root string) ([]string, error)
}
