package adapters

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	securejoin "github.com/cyphar/filepath-securejoin"

	"ros-cross-compile/internal/ports"
	"ros-cross-compile/internal/types"
)

// GatherLogName is the file, relative to the workspace internals
// directory, that receives the progress of the last gather run.
const GatherLogName = "rosdep_gather.log"

// GatherLogPath is where the progress log for workspace is written.
func GatherLogPath(workspace string) string {
	return filepath.Join(workspace, InternalsDir, GatherLogName)
}

// NewGatherLog opens the progress log of workspace. Symlinks below the
// workspace are resolved as if the workspace were the filesystem root, so
// the log is never written outside it.
func NewGatherLog(workspace string) (*ProgressLogAdapter, error) {
	path, err := securejoin.SecureJoin(workspace, filepath.Join(InternalsDir, GatherLogName))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve progress log path in workspace: " + workspace).
			WithCause(err)
	}
	return NewProgressLogAdapter(path)
}

// ProgressLogAdapter writes progress events to a plain text log, one line
// per event. It truncates the file on open.
type ProgressLogAdapter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

func NewProgressLogAdapter(path string) (*ProgressLogAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create progress log directory").
			WithCause(err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create progress log: " + path).
			WithCause(err)
	}
	return &ProgressLogAdapter{file: file, writer: bufio.NewWriter(file)}, nil
}

func (a *ProgressLogAdapter) Write(event types.ProgressEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := fmt.Fprintln(a.writer, formatProgressLine(event)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write progress log").
			WithCause(err)
	}
	return nil
}

func (a *ProgressLogAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.writer.Flush(); err != nil {
		_ = a.file.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to flush progress log").
			WithCause(err)
	}
	return a.file.Close()
}

func formatProgressLine(event types.ProgressEvent) string {
	line := fmt.Sprintf("[%s]", event.Kind)
	if event.ID != "" {
		line += " " + event.ID + ":"
	}
	if event.Message != "" {
		line += " " + event.Message
	}
	if event.Total > 0 {
		line += fmt.Sprintf(" (%d/%d)", event.Current, event.Total)
	}
	return line
}

// DiscardProgressAdapter drops every event.
type DiscardProgressAdapter struct{}

func (DiscardProgressAdapter) Write(types.ProgressEvent) error { return nil }

func (DiscardProgressAdapter) Close() error { return nil }

var (
	_ ports.ProgressSinkPort = (*ProgressLogAdapter)(nil)
	_ ports.ProgressSinkPort = DiscardProgressAdapter{}
)
