package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-cross-compile/internal/ports"
)

// InternalsDir is the per-workspace directory holding tool state such as
// the gather log. It is never scanned for packages.
const InternalsDir = "cc_internals"

// workspaceSkipDirs are colcon/catkin output directories that never hold
// source packages. Hidden directories are skipped as well.
var workspaceSkipDirs = []string{
	"install", "build", "log", "devel", InternalsDir,
}

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

// FindPackageXML returns every package.xml manifest below root in walk
// order, skipping build output and hidden directories.
func (a WorkspaceAdapter) FindPackageXML(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	var manifests []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || slices.Contains(workspaceSkipDirs, d.Name())) {
				return filepath.SkipDir
			}
			// CATKIN_IGNORE and COLCON_IGNORE mark a subtree as not part of the build.
			if path != root && hasIgnoreMarker(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == "package.xml" {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan workspace: " + root).
			WithCause(err)
	}
	return manifests, nil
}

func hasIgnoreMarker(dir string) bool {
	for _, marker := range []string{"CATKIN_IGNORE", "COLCON_IGNORE", "AMENT_IGNORE"} {
		if fileExists(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

var _ ports.WorkspacePort = WorkspaceAdapter{}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
