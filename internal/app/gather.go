package app

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ros-cross-compile/internal/core"
	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/shared"
	"ros-cross-compile/internal/types"
)

// RosdepDockerfile is the recipe every gather builds. It must accept the
// BASE_IMAGE and ROS_VERSION build arguments.
const RosdepDockerfile = "rosdep.Dockerfile"

const (
	buildArgBaseImage  = "BASE_IMAGE"
	buildArgROSVersion = "ROS_VERSION"
)

// Gather builds the image that gathers the rosdep dependencies of the
// workspace for req.Platform. It pulls the native base image, then builds
// the rosdep recipe in req.DockerDir on top of it, draining both progress
// streams. Nothing is retried and nothing is cleaned up on failure.
func (s Service) Gather(ctx context.Context, req GatherRequest) (GatherResult, error) {
	platform := req.Platform
	logger := log.Ctx(ctx).With().
		Str("arch", platform.Arch()).
		Str("os", platform.OSName()).
		Str("rosdistro", platform.ROSDistro()).
		Logger()

	workspace, err := s.scanWorkspace(req.Workspace)
	if err != nil {
		return GatherResult{}, err
	}
	if req.Workspace != "" {
		logger.Info().
			Str("workspace", req.Workspace).
			Int("packages", len(workspace.packages)).
			Int("rosdep_keys", len(workspace.rosdepKeys)).
			Msg("workspace scanned")
		logger.Debug().Strs("packages", workspace.packages).Strs("rosdep_keys", workspace.rosdepKeys).Msg("workspace contents")
	}
	if err := checkRecipe(req.DockerDir); err != nil {
		return GatherResult{}, err
	}

	engine, err := s.Engine(ctx)
	if err != nil {
		return GatherResult{}, core.EngineUnavailableError("local engine", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close container engine client")
		}
	}()
	if err := engine.Ping(ctx); err != nil {
		return GatherResult{}, core.EngineUnavailableError(engine.Host(), err)
	}

	started := s.now()
	sink := newProgressRelay(logger, req.Progress)
	baseImage := platform.NativeBaseImage()
	logger.Info().Str("image", baseImage).Msg("pulling native base image")
	pull, err := engine.PullImage(ctx, types.ImagePullRequest{Reference: baseImage})
	if err == nil {
		err = sink.drain(pull)
	}
	if err != nil {
		return GatherResult{}, core.PullFailedError(pullFailureCode(err), baseImage, err)
	}

	tag := core.RosdepImageTag(platform)
	logger.Info().Str("tag", tag).Str("recipe", RosdepDockerfile).Msg("building rosdep image")
	build, err := engine.BuildImage(ctx, types.ImageBuildRequest{
		ContextDir: req.DockerDir,
		Dockerfile: RosdepDockerfile,
		Tag:        tag,
		BuildArgs: map[string]string{
			buildArgBaseImage:  baseImage,
			buildArgROSVersion: string(platform.ROSVersion()),
		},
		NoCache: false,
	})
	if err == nil {
		err = sink.drain(build)
	}
	if err != nil {
		return GatherResult{}, core.BuildFailedError(tag, err)
	}

	logger.Info().
		Str("tag", tag).
		Int("events", sink.events).
		Dur("elapsed", s.now().Sub(started)).
		Msg("rosdep image built")
	return GatherResult{
		ImageTag:   tag,
		BaseImage:  baseImage,
		Packages:   workspace.packages,
		RosdepKeys: workspace.rosdepKeys,
		Events:     sink.events,
	}, nil
}

// workspaceSummary lists the workspace packages and the rosdep keys they
// declare, minus keys satisfied by packages in the workspace itself.
type workspaceSummary struct {
	packages   []string
	rosdepKeys []string
}

func (s Service) scanWorkspace(workspace string) (workspaceSummary, error) {
	if workspace == "" {
		return workspaceSummary{}, nil
	}
	if info, err := os.Stat(workspace); err != nil || !info.IsDir() {
		return workspaceSummary{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace directory not found: " + workspace)
	}
	paths, err := s.Workspace.FindPackageXML(workspace)
	if err != nil {
		return workspaceSummary{}, err
	}
	manifests, err := s.Manifests.ReadManifests(paths)
	if err != nil {
		return workspaceSummary{}, err
	}
	var summary workspaceSummary
	var keys []string
	for _, manifest := range manifests {
		summary.packages = append(summary.packages, manifest.Name)
		keys = append(keys, manifest.ROSDepKeys...)
	}
	summary.packages = shared.SortedUnique(summary.packages)
	summary.rosdepKeys = slices.DeleteFunc(shared.SortedUnique(keys), func(key string) bool {
		_, found := slices.BinarySearch(summary.packages, key)
		return found
	})
	return summary, nil
}

func checkRecipe(dockerDir string) error {
	if strings.TrimSpace(dockerDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("docker build context directory is required")
	}
	recipe := filepath.Join(dockerDir, RosdepDockerfile)
	if info, err := os.Stat(recipe); err != nil || info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("rosdep recipe not found: " + recipe)
	}
	return nil
}

// pullFailureCode keeps the engine's not-found and auth classifications
// and folds everything else into Internal.
func pullFailureCode(err error) errbuilder.ErrCode {
	switch code := errbuilder.CodeOf(err); code {
	case errbuilder.CodeNotFound, errbuilder.CodePermissionDenied:
		return code
	default:
		return errbuilder.CodeInternal
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// progressRelay surfaces engine events to the logger and the optional
// progress sink.
type progressRelay struct {
	logger zerolog.Logger
	sink   ports.ProgressSinkPort
	events int
}

func newProgressRelay(logger zerolog.Logger, sink ports.ProgressSinkPort) *progressRelay {
	return &progressRelay{logger: logger, sink: sink}
}

// drain consumes events to completion. An error in the sequence is
// terminal and returned as is.
func (r *progressRelay) drain(events iter.Seq2[types.ProgressEvent, error]) error {
	for event, err := range events {
		if event.Kind != "" {
			r.surface(event)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *progressRelay) surface(event types.ProgressEvent) {
	r.events++
	var entry *zerolog.Event
	switch event.Kind {
	case types.ProgressKindStream:
		entry = r.logger.Info()
	case types.ProgressKindError:
		entry = r.logger.Error()
	default:
		entry = r.logger.Debug()
	}
	if event.ID != "" {
		entry = entry.Str("id", event.ID)
	}
	if event.Total > 0 {
		entry = entry.Int64("current", event.Current).Int64("total", event.Total)
	}
	entry.Str("kind", string(event.Kind)).Msg(event.Message)

	if r.sink == nil {
		return
	}
	if err := r.sink.Write(event); err != nil {
		r.logger.Warn().Err(err).Msg("progress sink failed, further events only logged")
		r.sink = nil
	}
}
