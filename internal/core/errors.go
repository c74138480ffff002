package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorKind names a failure class of platform resolution or dependency
// gathering. Kinds are recovered from the builder message prefix so that
// they survive wrapping by callers that only keep the errbuilder value.
type ErrorKind string

const (
	KindUnknown             ErrorKind = ""
	KindInvalidArchitecture ErrorKind = "InvalidArchitecture"
	KindInvalidDistro       ErrorKind = "InvalidDistro"
	KindInvalidOSForDistro  ErrorKind = "InvalidOsForDistro"
	KindEngineUnavailable   ErrorKind = "EngineUnavailable"
	KindPullFailed          ErrorKind = "PullFailed"
	KindBuildFailed         ErrorKind = "BuildFailed"
)

const (
	MsgUnknownArchitecture = "unknown target architecture"
	MsgUnknownDistro       = "unknown ROS distribution"
	MsgOSNotSupported      = "OS not supported for ROS distro"
	MsgEngineUnavailable   = "container engine unavailable"
	MsgPullFailed          = "failed to pull base image"
	MsgBuildFailed         = "rosdep image build failed"
)

var kindPrefixes = []struct {
	prefix string
	kind   ErrorKind
}{
	{MsgUnknownArchitecture, KindInvalidArchitecture},
	{MsgUnknownDistro, KindInvalidDistro},
	{MsgOSNotSupported, KindInvalidOSForDistro},
	{MsgEngineUnavailable, KindEngineUnavailable},
	{MsgPullFailed, KindPullFailed},
	{MsgBuildFailed, KindBuildFailed},
}

// KindOf classifies err. Errors that were not produced by this package
// report KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return KindUnknown
	}
	for _, entry := range kindPrefixes {
		if strings.HasPrefix(builder.Msg, entry.prefix) {
			return entry.kind
		}
	}
	return KindUnknown
}

func errUnknownArchitecture(arch string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %q specified", MsgUnknownArchitecture, arch))
}

func errUnknownDistro(distro string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %q specified", MsgUnknownDistro, distro))
}

func errOSNotSupported(osName string, distro string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: OS %q, ROS distro %q", MsgOSNotSupported, osName, distro))
}

// EngineUnavailableError reports that the container engine could not be
// reached at host.
func EngineUnavailableError(host string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s at %q", MsgEngineUnavailable, host)).
		WithCause(cause)
}

// PullFailedError reports a failed pull of image. code carries the
// engine's classification (not found, denied, other).
func PullFailedError(code errbuilder.ErrCode, image string, cause error) error {
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf("%s %q", MsgPullFailed, image)).
		WithCause(cause)
}

// BuildFailedError reports a failed build of the image tagged tag.
func BuildFailedError(tag string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s for %q", MsgBuildFailed, tag)).
		WithCause(cause)
}
