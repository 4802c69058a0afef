package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/hourly"
	"github.com/viant/hourly/internal/logging"
)

type options struct {
	configFile string
	config     *hourly.Config
	logger     *slog.Logger
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "hourly",
		Short:         "Allocate developer hours against a prioritized backlog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			opts.config = cfg
			opts.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")
	root.AddCommand(serveCmd(opts), allocateCmd(opts), versionCmd())
	return root
}

// loadConfig merges defaults, the optional config file and HOURLY_* environment variables.
func loadConfig(configFile string) (*hourly.Config, error) {
	v := viper.New()
	setDefaults(v, hourly.DefaultConfig())
	v.SetEnvPrefix("HOURLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}
	cfg := &hourly.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults *hourly.Config) {
	v.SetDefault("store.kind", defaults.Store.Kind)
	v.SetDefault("store.url", defaults.Store.URL)
	v.SetDefault("export.url", defaults.Export.URL)
	v.SetDefault("export.prefix", defaults.Export.Prefix)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.service", defaults.Tracing.Service)
	v.SetDefault("tracing.version", defaults.Tracing.Version)
	v.SetDefault("tracing.output", defaults.Tracing.Output)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the release version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), hourly.Version)
		},
	}
}
