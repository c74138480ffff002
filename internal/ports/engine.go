package ports

import (
	"context"
	"iter"

	"ros-cross-compile/internal/types"
)

// ContainerEnginePort is the narrow view of a container engine needed to
// gather dependencies: a reachability probe, an image pull and an image
// build.
//
// PullImage and BuildImage return a finite, non-restartable sequence of
// progress events. The operation has finished only once the sequence is
// drained; an error yielded by the sequence is terminal.
type ContainerEnginePort interface {
	Ping(ctx context.Context) error
	PullImage(ctx context.Context, request types.ImagePullRequest) (iter.Seq2[types.ProgressEvent, error], error)
	BuildImage(ctx context.Context, request types.ImageBuildRequest) (iter.Seq2[types.ProgressEvent, error], error)
	Host() string
	Close() error
}

// ContainerEngineConnector opens a handle to the local container engine.
type ContainerEngineConnector func(ctx context.Context) (ContainerEnginePort, error)

// ProgressSinkPort receives every progress event of a gather run.
type ProgressSinkPort interface {
	Write(event types.ProgressEvent) error
	Close() error
}
