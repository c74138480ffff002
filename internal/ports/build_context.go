package ports

import "io"

// BuildContextPort packs a build context directory into the tar stream
// sent to the container engine. dockerfile names the recipe inside dir;
// it is always part of the archive.
type BuildContextPort interface {
	Archive(dir string, dockerfile string) (io.ReadCloser, error)
}
