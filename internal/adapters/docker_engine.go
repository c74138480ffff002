package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"

	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/types"
)

// DockerEngineAdapter talks to a docker daemon through its HTTP API.
type DockerEngineAdapter struct {
	client       *client.Client
	buildContext ports.BuildContextPort
}

// NewDockerEngineAdapter creates a client for the daemon at host. An
// empty host falls back to DOCKER_HOST and the platform default socket.
func NewDockerEngineAdapter(host string, buildContext ports.BuildContextPort) (*DockerEngineAdapter, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if strings.TrimSpace(host) != "" {
		opts = append(opts, client.WithHost(strings.TrimSpace(host)))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to create docker client").
			WithCause(err)
	}
	return &DockerEngineAdapter{client: cli, buildContext: buildContext}, nil
}

// ConnectDockerEngine returns a connector opening a DockerEngineAdapter
// for host on demand.
func ConnectDockerEngine(host string) ports.ContainerEngineConnector {
	return func(_ context.Context) (ports.ContainerEnginePort, error) {
		engine, err := NewDockerEngineAdapter(host, NewBuildContextAdapter())
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
}

func (a *DockerEngineAdapter) Host() string {
	return a.client.DaemonHost()
}

func (a *DockerEngineAdapter) Ping(ctx context.Context) error {
	if _, err := a.client.Ping(ctx); err != nil {
		return engineError("docker daemon did not answer ping", err)
	}
	return nil
}

func (a *DockerEngineAdapter) PullImage(ctx context.Context, request types.ImagePullRequest) (iter.Seq2[types.ProgressEvent, error], error) {
	body, err := a.client.ImagePull(ctx, request.Reference, image.PullOptions{Platform: request.Platform})
	if err != nil {
		return nil, engineError(fmt.Sprintf("image pull of %s rejected", request.Reference), err)
	}
	return decodeProgress(body), nil
}

func (a *DockerEngineAdapter) BuildImage(ctx context.Context, request types.ImageBuildRequest) (iter.Seq2[types.ProgressEvent, error], error) {
	tarball, err := a.buildContext.Archive(request.ContextDir, request.Dockerfile)
	if err != nil {
		return nil, err
	}
	defer tarball.Close()

	buildArgs := make(map[string]*string, len(request.BuildArgs))
	for key, value := range request.BuildArgs {
		buildArgs[key] = &value
	}
	response, err := a.client.ImageBuild(ctx, tarball, build.ImageBuildOptions{
		Tags:       []string{request.Tag},
		Dockerfile: request.Dockerfile,
		BuildArgs:  buildArgs,
		NoCache:    request.NoCache,
		Remove:     true,
	})
	if err != nil {
		return nil, engineError(fmt.Sprintf("image build of %s rejected", request.Tag), err)
	}
	return decodeProgress(response.Body), nil
}

func (a *DockerEngineAdapter) Close() error {
	return a.client.Close()
}

// decodeProgress turns a daemon JSON message stream into progress events.
// The body is closed once the sequence is drained or abandoned; an error
// record in the stream ends the sequence.
func decodeProgress(body io.ReadCloser) iter.Seq2[types.ProgressEvent, error] {
	return func(yield func(types.ProgressEvent, error) bool) {
		defer body.Close()
		decoder := json.NewDecoder(body)
		for {
			var message jsonmessage.JSONMessage
			if err := decoder.Decode(&message); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(types.ProgressEvent{}, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to decode engine progress stream").
					WithCause(err))
				return
			}
			event := progressEvent(message)
			if message.Error != nil {
				yield(event, streamError(message.Error))
				return
			}
			if !yield(event, nil) {
				return
			}
		}
	}
}

func progressEvent(message jsonmessage.JSONMessage) types.ProgressEvent {
	event := types.ProgressEvent{ID: message.ID}
	switch {
	case message.Error != nil:
		event.Kind = types.ProgressKindError
		event.Message = message.Error.Message
	case message.Stream != "":
		event.Kind = types.ProgressKindStream
		event.Message = strings.TrimRight(message.Stream, "\r\n")
	case message.Progress != nil && message.Progress.Total > 0:
		event.Kind = types.ProgressKindProgress
		event.Message = message.Status
		event.Current = message.Progress.Current
		event.Total = message.Progress.Total
	case message.Aux != nil:
		event.Kind = types.ProgressKindAux
		event.Message = string(*message.Aux)
	default:
		event.Kind = types.ProgressKindStatus
		event.Message = message.Status
	}
	return event
}

func streamError(jsonErr *jsonmessage.JSONError) error {
	code := errbuilder.CodeInternal
	switch jsonErr.Code {
	case http.StatusNotFound:
		code = errbuilder.CodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		code = errbuilder.CodePermissionDenied
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(jsonErr.Message).
		WithCause(jsonErr)
}

// engineError maps a docker client error onto an errbuilder code.
func engineError(msg string, err error) error {
	code := errbuilder.CodeInternal
	switch {
	case client.IsErrConnectionFailed(err):
		code = errbuilder.CodeFailedPrecondition
	case cerrdefs.IsNotFound(err):
		code = errbuilder.CodeNotFound
	case cerrdefs.IsUnauthorized(err), cerrdefs.IsPermissionDenied(err):
		code = errbuilder.CodePermissionDenied
	case cerrdefs.IsInvalidArgument(err):
		code = errbuilder.CodeInvalidArgument
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.ContainerEnginePort = (*DockerEngineAdapter)(nil)
