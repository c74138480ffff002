package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/rs/zerolog/log"

	"ros-cross-compile/internal/types"
)

// PlatformArgs is the raw, unvalidated description of a target platform
// as supplied by the user.
type PlatformArgs struct {
	Arch              string
	OSName            string
	ROSDistro         string
	OverrideBaseImage string
}

// baseImage is the target base image: either an image the caller named
// explicitly or one derived from the docker organisation of the
// architecture and the OS release.
type baseImage struct {
	source   types.BaseImageSource
	override string
	org      string
}

// Platform is the validated target platform for cross compiling: target
// architecture, target operating system and target ROS distribution,
// together with everything derived from them. A Platform is immutable.
type Platform struct {
	arch        string
	osName      string
	rosDistro   string
	rosVersion  types.ROSVersion
	toolchain   string
	ociPlatform string
	osDistro    string
	target      baseImage
}

// NewPlatform validates args against the built-in target tables.
func NewPlatform(ctx context.Context, args PlatformArgs) (Platform, error) {
	return NewPlatformWithTables(ctx, DefaultTargetTables(), args)
}

// NewPlatformWithTables validates args against tables and derives the
// toolchain, version track, OS codename and base images. Validation order
// is architecture, then distro, then OS.
func NewPlatformWithTables(ctx context.Context, tables types.TargetTables, args PlatformArgs) (Platform, error) {
	arch := strings.TrimSpace(args.Arch)
	osName := strings.TrimSpace(args.OSName)
	distro := strings.TrimSpace(args.ROSDistro)

	support, ok := tables.Architectures[arch]
	if !ok {
		return Platform{}, errUnknownArchitecture(arch)
	}
	rosVersion, ok := ROSVersionFor(tables, distro)
	if !ok {
		return Platform{}, errUnknownDistro(distro)
	}
	osDistro, ok := tables.OSMapping[distro][osName]
	if !ok {
		return Platform{}, errOSNotSupported(osName, distro)
	}

	target := baseImage{source: types.BaseImageDerived, org: support.DockerOrg}
	if args.OverrideBaseImage != "" {
		target = baseImage{source: types.BaseImageOverridden, override: args.OverrideBaseImage}
	}

	p := Platform{
		arch:        arch,
		osName:      osName,
		rosDistro:   distro,
		rosVersion:  rosVersion,
		toolchain:   support.Toolchain,
		ociPlatform: support.Platform,
		osDistro:    osDistro,
		target:      target,
	}
	assert.NotEmpty(ctx, p.toolchain, "toolchain must be derived")
	assert.NotEmpty(ctx, p.osDistro, "os distro codename must be derived")
	assert.NotEmpty(ctx, p.TargetBaseImage(), "target base image must be derived")

	log.Ctx(ctx).Debug().
		Str("platform", p.String()).
		Str("toolchain", p.toolchain).
		Str("target_base", p.TargetBaseImage()).
		Bool("overridden", p.BaseImageOverridden()).
		Msg("platform resolved")
	return p, nil
}

func (p Platform) Arch() string {
	return p.arch
}

func (p Platform) OSName() string {
	return p.osName
}

func (p Platform) ROSDistro() string {
	return p.rosDistro
}

// OSDistro is the OS release codename the ROS distro is built against.
func (p Platform) OSDistro() string {
	return p.osDistro
}

func (p Platform) CCToolchain() string {
	return p.toolchain
}

func (p Platform) ROSVersion() types.ROSVersion {
	return p.rosVersion
}

// BaseImageOverridden reports whether the target base image was named by
// the caller instead of derived.
func (p Platform) BaseImageOverridden() bool {
	return p.target.source == types.BaseImageOverridden
}

// TargetBaseImage is the base OS image for the target architecture.
func (p Platform) TargetBaseImage() string {
	switch p.target.source {
	case types.BaseImageOverridden:
		return p.target.override
	default:
		return fmt.Sprintf("%s/%s:%s", p.target.org, p.osName, p.osDistro)
	}
}

// NativeBaseImage is the base OS image for the host platform. It is
// derived from the OS release even when the target image is overridden.
func (p Platform) NativeBaseImage() string {
	return fmt.Sprintf("%s:%s", p.osName, p.osDistro)
}

// TargetPlatform returns the OCI platform of the target base image.
func (p Platform) TargetPlatform() (ocispec.Platform, error) {
	if p.ociPlatform == "" {
		return ocispec.Platform{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no OCI platform recorded for architecture %s", p.arch))
	}
	parsed, err := platforms.Parse(p.ociPlatform)
	if err != nil {
		return ocispec.Platform{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid OCI platform %s for architecture %s", p.ociPlatform, p.arch)).
			WithCause(err)
	}
	return platforms.Normalize(parsed), nil
}

func (p Platform) String() string {
	return strings.Join([]string{p.arch, p.osName, p.rosDistro}, "-")
}

// SysrootImageTag is the image name and tag of the sysroot built for this
// platform, namespaced by identity (normally the invoking OS user).
func (p Platform) SysrootImageTag(identity string) string {
	return identity + "/" + p.String() + ":latest"
}

// RosdepImageTag is the tag of the image that gathers rosdep dependencies
// for p. It depends only on the architecture, OS, OS release and version
// track, so every ROS distro sharing those reuses one image.
func RosdepImageTag(p Platform) string {
	return fmt.Sprintf("rcc/rosdep:%s-%s-%s-%s", p.arch, p.osName, p.osDistro, p.rosVersion)
}
