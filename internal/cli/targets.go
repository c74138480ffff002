package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ros-cross-compile/internal/app"
)

func newTargetsCommand(cfg *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "Print the supported architectures, ROS distributions and OS releases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTargets(cmd.Context(), cmd, *cfg, cmd.OutOrStdout())
		},
	}
}

func runTargets(ctx context.Context, cmd *cobra.Command, cfg RootConfig, out io.Writer) error {
	service := newAppService(cmd, cfg)
	result, err := service.Targets(ctx, app.TargetsRequest{
		TargetFiles: resolveStrings(cmd, cfg.Targets, "targets", "targets"),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ARCH\tTOOLCHAIN\tDOCKER ORG\tPLATFORM")
	for _, arch := range result.Architectures {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", arch.Name, arch.Toolchain, arch.DockerOrg, arch.Platform)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ROSDISTRO\tVERSION\tOS RELEASES")
	for _, distro := range result.Distros {
		fmt.Fprintf(w, "%s\t%s\t%s\n", distro.Name, distro.Version, formatReleases(distro.OSReleases))
	}
	return w.Flush()
}

func formatReleases(releases map[string]string) string {
	pairs := make([]string, 0, len(releases))
	for osName, codename := range releases {
		pairs = append(pairs, osName+":"+codename)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
