package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/containerd/platforms"
	"github.com/rs/zerolog/log"

	"ros-cross-compile/internal/core"
)

// ResolvePlatform validates the requested target against the effective
// target tables and derives the names the gather pipeline needs. The build
// identity is not consulted; see SysrootImageTag.
func (s Service) ResolvePlatform(ctx context.Context, req PlatformRequest) (PlatformResult, error) {
	tables, err := s.loadTargets(ctx, req.TargetFiles)
	if err != nil {
		return PlatformResult{}, err
	}
	platform, err := core.NewPlatformWithTables(ctx, tables, core.PlatformArgs{
		Arch:              req.Arch,
		OSName:            req.OSName,
		ROSDistro:         req.ROSDistro,
		OverrideBaseImage: req.OverrideBaseImage,
	})
	if err != nil {
		return PlatformResult{}, err
	}

	result := PlatformResult{
		Platform:       platform,
		RosdepImageTag: core.RosdepImageTag(platform),
	}
	ociPlatform, err := platform.TargetPlatform()
	switch {
	case err == nil:
		result.OCIPlatform = platforms.Format(ociPlatform)
	case errbuilder.CodeOf(err) == errbuilder.CodeNotFound:
		log.Ctx(ctx).Debug().Str("arch", platform.Arch()).Msg("no OCI platform recorded")
	default:
		return PlatformResult{}, err
	}

	log.Ctx(ctx).Info().
		Str("platform", platform.String()).
		Str("rosdep", result.RosdepImageTag).
		Msg("platform resolved")
	return result, nil
}

// SysrootImageTag names the sysroot image of platform for the current build
// identity.
func (s Service) SysrootImageTag(ctx context.Context, platform core.Platform) (string, error) {
	identity, err := s.Identity.Identity()
	if err != nil {
		return "", err
	}
	tag := platform.SysrootImageTag(identity)
	log.Ctx(ctx).Debug().Str("identity", identity).Str("sysroot", tag).Msg("sysroot image tag resolved")
	return tag, nil
}
