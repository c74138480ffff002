package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-cross-compile/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "ROS_CROSS_COMPILE"

type RootConfig struct {
	ConfigFile    string
	LogLevel      string
	DockerHost    string
	BuildIdentity string
	Targets       []string
}

// newAppService builds the service for a command; tests replace it.
var newAppService = func(cmd *cobra.Command, cfg RootConfig) app.Service {
	return app.NewService(
		resolveString(cmd, cfg.DockerHost, "docker_host", "docker-host"),
		resolveString(cmd, cfg.BuildIdentity, "build_identity", "build-identity"),
	)
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := &RootConfig{}
	cmd := &cobra.Command{
		Use:           "ros-cross-compile",
		Short:         "Resolve ROS cross-compilation targets and gather their rosdep dependencies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.DockerHost, "docker-host", "", "Docker daemon host (defaults to DOCKER_HOST)")
	flags.StringVar(&cfg.BuildIdentity, "build-identity", "", "Namespace for the sysroot image tag (defaults to the OS user)")
	flags.StringSliceVar(&cfg.Targets, "targets", nil, "Supported-target tables layered over the built-in ones")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("docker_host", flags.Lookup("docker-host"))
	_ = viper.BindPFlag("build_identity", flags.Lookup("build-identity"))
	_ = viper.BindPFlag("targets", flags.Lookup("targets"))

	cmd.AddCommand(newPlatformCommand(cfg))
	cmd.AddCommand(newGatherCommand(cfg))
	cmd.AddCommand(newTargetsCommand(cfg))
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("ros-cross-compile")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "ros-cross-compile"))
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
