package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-cross-compile/internal/adapters"
	"ros-cross-compile/internal/app"
	"ros-cross-compile/internal/ports"
)

type gatherOptions struct {
	platformOptions
	Workspace string
	DockerDir string
}

func newGatherCommand(cfg *RootConfig) *cobra.Command {
	opts := gatherOptions{}
	cmd := &cobra.Command{
		Use:   "gather",
		Short: "Build the image that gathers rosdep dependencies for a target platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGather(cmd.Context(), cmd, *cfg, opts, cmd.OutOrStdout())
		},
	}
	bindPlatformFlags(cmd, &opts.platformOptions)
	cmd.Flags().StringVar(&opts.Workspace, "workspace", "", "ROS workspace to gather dependencies for")
	cmd.Flags().StringVar(&opts.DockerDir, "docker-dir", "", "Directory holding rosdep.Dockerfile")
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	_ = viper.BindPFlag("docker_dir", cmd.Flags().Lookup("docker-dir"))
	return cmd
}

func runGather(ctx context.Context, cmd *cobra.Command, cfg RootConfig, opts gatherOptions, out io.Writer) error {
	service := newAppService(cmd, cfg)
	resolved, err := service.ResolvePlatform(ctx, platformRequest(cmd, cfg, opts.platformOptions))
	if err != nil {
		return err
	}

	workspace := resolveString(cmd, opts.Workspace, "workspace", "workspace")
	var progress ports.ProgressSinkPort = adapters.DiscardProgressAdapter{}
	if info, statErr := os.Stat(workspace); workspace != "" && statErr == nil && info.IsDir() {
		sink, err := adapters.NewGatherLog(workspace)
		if err != nil {
			return err
		}
		progress = sink
	}
	defer func() {
		if err := progress.Close(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to close progress log")
		}
	}()

	result, err := service.Gather(ctx, app.GatherRequest{
		Platform:  resolved.Platform,
		Workspace: workspace,
		DockerDir: resolveString(cmd, opts.DockerDir, "docker_dir", "docker-dir"),
		Progress:  progress,
	})
	if err != nil {
		return err
	}
	if workspace != "" {
		fmt.Fprintf(out, "workspace packages: %d, rosdep keys: %d\n", len(result.Packages), len(result.RosdepKeys))
	}
	fmt.Fprintf(out, "gathered dependencies image: %s\n", result.ImageTag)
	return nil
}
