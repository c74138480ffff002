package app

import (
	"context"
	"iter"
	"time"

	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/types"
)

type fakeEngine struct {
	pingErr     error
	pullErr     error
	pullEvents  []types.ProgressEvent
	pullStream  error
	buildErr    error
	buildEvents []types.ProgressEvent
	buildStream error

	calls   []string
	pulls   []types.ImagePullRequest
	builds  []types.ImageBuildRequest
	drained []string
	closed  bool
}

func (f *fakeEngine) Ping(context.Context) error {
	f.calls = append(f.calls, "ping")
	return f.pingErr
}

func (f *fakeEngine) PullImage(_ context.Context, request types.ImagePullRequest) (iter.Seq2[types.ProgressEvent, error], error) {
	f.calls = append(f.calls, "pull")
	f.pulls = append(f.pulls, request)
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.sequence("pull", f.pullEvents, f.pullStream), nil
}

func (f *fakeEngine) BuildImage(_ context.Context, request types.ImageBuildRequest) (iter.Seq2[types.ProgressEvent, error], error) {
	f.calls = append(f.calls, "build")
	f.builds = append(f.builds, request)
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return f.sequence("build", f.buildEvents, f.buildStream), nil
}

func (f *fakeEngine) Host() string {
	return "unix:///var/run/docker.sock"
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

// sequence mimics the engine stream: events, then an optional terminal
// error carried with an error event.
func (f *fakeEngine) sequence(name string, events []types.ProgressEvent, streamErr error) iter.Seq2[types.ProgressEvent, error] {
	return func(yield func(types.ProgressEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
		if streamErr != nil {
			yield(types.ProgressEvent{Kind: types.ProgressKindError, Message: streamErr.Error()}, streamErr)
			return
		}
		f.drained = append(f.drained, name)
	}
}

func connectTo(engine *fakeEngine) ports.ContainerEngineConnector {
	return func(context.Context) (ports.ContainerEnginePort, error) {
		return engine, nil
	}
}

type fakeWorkspace struct {
	manifests []string
	err       error
	roots     []string
}

func (f *fakeWorkspace) FindPackageXML(root string) ([]string, error) {
	f.roots = append(f.roots, root)
	return f.manifests, f.err
}

type fakeManifests struct {
	manifests []types.PackageManifest
	err       error
}

func (f fakeManifests) ReadManifests(paths []string) ([]types.PackageManifest, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.manifests != nil {
		return f.manifests, nil
	}
	manifests := make([]types.PackageManifest, 0, len(paths))
	for _, path := range paths {
		manifests = append(manifests, types.PackageManifest{Path: path, Name: path})
	}
	return manifests, nil
}

type fakeIdentity struct {
	name string
	err  error
}

func (f fakeIdentity) Identity() (string, error) {
	return f.name, f.err
}

type fakeTargets struct {
	tables types.TargetTables
	err    error
	paths  []string
}

func (f *fakeTargets) LoadTargets(base types.TargetTables, paths []string) (types.TargetTables, error) {
	f.paths = append(f.paths, paths...)
	if f.err != nil {
		return types.TargetTables{}, f.err
	}
	if f.tables.Architectures == nil {
		return base, nil
	}
	return f.tables, nil
}

type recordingSink struct {
	events   []types.ProgressEvent
	writeErr error
}

func (s *recordingSink) Write(event types.ProgressEvent) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Close() error {
	return nil
}

func fixedClock() time.Time {
	return time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
}

func newTestService(engine *fakeEngine) Service {
	return Service{
		Engine:       connectTo(engine),
		TargetSource: &fakeTargets{},
		Identity:     fakeIdentity{name: "builder"},
		Workspace:    &fakeWorkspace{},
		Manifests:    fakeManifests{},
		Clock:        fixedClock,
	}
}
