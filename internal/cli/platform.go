package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-cross-compile/internal/app"
)

type platformOptions struct {
	Arch              string
	OS                string
	ROSDistro         string
	OverrideBaseImage string
}

func newPlatformCommand(cfg *RootConfig) *cobra.Command {
	opts := platformOptions{}
	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Validate a target platform and print its derived build configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlatform(cmd.Context(), cmd, *cfg, opts, cmd.OutOrStdout())
		},
	}
	bindPlatformFlags(cmd, &opts)
	return cmd
}

func bindPlatformFlags(cmd *cobra.Command, opts *platformOptions) {
	cmd.Flags().StringVar(&opts.Arch, "arch", "", "Target architecture (armhf, aarch64)")
	cmd.Flags().StringVar(&opts.OS, "os", "", "Target OS (ubuntu, debian)")
	cmd.Flags().StringVar(&opts.ROSDistro, "rosdistro", "", "Target ROS distribution")
	cmd.Flags().StringVar(&opts.OverrideBaseImage, "override-base-image", "", "Use this image as the target base instead of the derived one")
	_ = viper.BindPFlag("arch", cmd.Flags().Lookup("arch"))
	_ = viper.BindPFlag("os", cmd.Flags().Lookup("os"))
	_ = viper.BindPFlag("rosdistro", cmd.Flags().Lookup("rosdistro"))
	_ = viper.BindPFlag("override_base_image", cmd.Flags().Lookup("override-base-image"))
}

func platformRequest(cmd *cobra.Command, cfg RootConfig, opts platformOptions) app.PlatformRequest {
	return app.PlatformRequest{
		Arch:              resolveString(cmd, opts.Arch, "arch", "arch"),
		OSName:            resolveString(cmd, opts.OS, "os", "os"),
		ROSDistro:         resolveString(cmd, opts.ROSDistro, "rosdistro", "rosdistro"),
		OverrideBaseImage: resolveString(cmd, opts.OverrideBaseImage, "override_base_image", "override-base-image"),
		TargetFiles:       resolveStrings(cmd, cfg.Targets, "targets", "targets"),
	}
}

func runPlatform(ctx context.Context, cmd *cobra.Command, cfg RootConfig, opts platformOptions, out io.Writer) error {
	service := newAppService(cmd, cfg)
	result, err := service.ResolvePlatform(ctx, platformRequest(cmd, cfg, opts))
	if err != nil {
		return err
	}
	sysroot, err := service.SysrootImageTag(ctx, result.Platform)
	if err != nil {
		return err
	}
	p := result.Platform
	fmt.Fprintf(out, "platform: %s\n", p)
	fmt.Fprintf(out, "toolchain: %s\n", p.CCToolchain())
	fmt.Fprintf(out, "os release: %s\n", p.OSDistro())
	fmt.Fprintf(out, "ros version: %s\n", p.ROSVersion())
	fmt.Fprintf(out, "native base image: %s\n", p.NativeBaseImage())
	fmt.Fprintf(out, "target base image: %s\n", p.TargetBaseImage())
	if result.OCIPlatform != "" {
		fmt.Fprintf(out, "target oci platform: %s\n", result.OCIPlatform)
	}
	fmt.Fprintf(out, "sysroot image: %s\n", sysroot)
	fmt.Fprintf(out, "rosdep image: %s\n", result.RosdepImageTag)
	return nil
}
