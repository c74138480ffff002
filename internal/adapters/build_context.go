package adapters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/moby/go-archive"
	"github.com/moby/go-archive/compression"
	"github.com/moby/patternmatcher/ignorefile"

	"ros-cross-compile/internal/ports"
)

const dockerignoreFile = ".dockerignore"

// BuildContextAdapter tars a build context directory, honouring the
// .dockerignore file at its root the same way the docker CLI does.
type BuildContextAdapter struct{}

func NewBuildContextAdapter() BuildContextAdapter {
	return BuildContextAdapter{}
}

func (a BuildContextAdapter) Archive(dir string, dockerfile string) (io.ReadCloser, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build context directory is empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("build context directory not found: %s", dir)).
			WithCause(err)
	}
	if !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("build context is not a directory: %s", dir))
	}
	excludes, err := readDockerignore(dir)
	if err != nil {
		return nil, err
	}
	excludes = keepBuildFiles(excludes, dockerfile)

	tarball, err := archive.TarWithOptions(dir, &archive.TarOptions{
		ExcludePatterns: excludes,
		Compression:     compression.None,
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to archive build context").
			WithCause(err)
	}
	return tarball, nil
}

func readDockerignore(dir string) ([]string, error) {
	file, err := os.Open(filepath.Join(dir, dockerignoreFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open .dockerignore").
			WithCause(err)
	}
	defer file.Close()
	patterns, err := ignorefile.ReadAll(file)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse .dockerignore").
			WithCause(err)
	}
	return patterns, nil
}

// keepBuildFiles re-includes the recipe and the ignore file itself: the
// engine needs both even when a pattern would exclude them.
func keepBuildFiles(excludes []string, dockerfile string) []string {
	if len(excludes) == 0 {
		return excludes
	}
	keep := []string{"!" + dockerignoreFile}
	if name := filepath.ToSlash(filepath.Clean(strings.TrimSpace(dockerfile))); name != "" && name != "." {
		keep = append(keep, "!"+name)
	}
	return append(excludes, keep...)
}

var _ ports.BuildContextPort = BuildContextAdapter{}
