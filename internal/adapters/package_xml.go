package adapters

import (
	"encoding/xml"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/shared"
	"ros-cross-compile/internal/types"
)

// PackageXMLAdapter reads ROS package manifests. Parsed manifests are
// cached by path and modification time.
type PackageXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]packageXMLCacheEntry
}

func NewPackageXMLAdapter() *PackageXMLAdapter {
	return &PackageXMLAdapter{cache: map[string]packageXMLCacheEntry{}}
}

// packageXML covers formats 1 to 3 (REP-127, REP-140, REP-149).
type packageXML struct {
	Format            string      `xml:"format,attr"`
	Name              string      `xml:"name"`
	Depend            []dependTag `xml:"depend"`
	BuildDepend       []dependTag `xml:"build_depend"`
	BuildExportDepend []dependTag `xml:"build_export_depend"`
	BuildtoolDepend   []dependTag `xml:"buildtool_depend"`
	ExecDepend        []dependTag `xml:"exec_depend"`
	RunDepend         []dependTag `xml:"run_depend"`
	TestDepend        []dependTag `xml:"test_depend"`
}

type dependTag struct {
	Value string `xml:",chardata"`
}

type packageXMLCacheEntry struct {
	modTime  time.Time
	manifest types.PackageManifest
}

func (a *PackageXMLAdapter) ReadManifests(paths []string) ([]types.PackageManifest, error) {
	manifests := make([]types.PackageManifest, 0, len(paths))
	for _, path := range paths {
		manifest, err := a.loadPackageXML(path)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}

func (a *PackageXMLAdapter) loadPackageXML(path string) (types.PackageManifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read package.xml: " + path).
			WithCause(err)
	}
	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return entry.manifest, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read package.xml: " + path).
			WithCause(err)
	}
	var pkg packageXML
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse package.xml: " + path).
			WithCause(err)
	}
	name := strings.TrimSpace(pkg.Name)
	if name == "" {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package.xml has no name: " + path)
	}
	format := strings.TrimSpace(pkg.Format)
	if format == "" {
		format = "1"
	}
	manifest := types.PackageManifest{
		Path:       path,
		Name:       name,
		Format:     format,
		ROSDepKeys: shared.SortedUnique(dependKeys(&pkg)),
	}

	a.mu.Lock()
	a.cache[path] = packageXMLCacheEntry{modTime: info.ModTime(), manifest: manifest}
	a.mu.Unlock()
	return manifest, nil
}

func dependKeys(pkg *packageXML) []string {
	var keys []string
	for _, group := range [][]dependTag{
		pkg.Depend,
		pkg.BuildDepend,
		pkg.BuildExportDepend,
		pkg.BuildtoolDepend,
		pkg.ExecDepend,
		pkg.RunDepend,
		pkg.TestDepend,
	} {
		for _, dep := range group {
			keys = append(keys, dep.Value)
		}
	}
	return keys
}

var _ ports.PackageManifestPort = (*PackageXMLAdapter)(nil)
