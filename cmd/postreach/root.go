package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"postreach/internal/config"
	"postreach/internal/extractor"
	"postreach/internal/metrics"
	"postreach/internal/upstream"
)

var version = "dev"

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	configPath  string
	logLevel    string
	upstreamURL string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "postreach",
		Short:         "Extract the people who engaged with a LinkedIn post",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", ".", "config directory or config file")
	flags.StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL")
	flags.StringVar(&a.upstreamURL, "upstream-url", "", "override the upstream base URL")
	_ = flags.MarkHidden("upstream-url")

	root.AddCommand(
		newServeCmd(a),
		newExtractCmd(a),
		newValidateCmd(),
		newROASCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "postreach %s\n", version)
			},
		},
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(logOut)
	log.SetLevel(cfg.Level())
	a.log = log

	log.WithFields(logrus.Fields{
		"demo_mode":   cfg.DemoMode,
		"bot_enabled": cfg.BotEnabled(),
		"log_level":   cfg.Level().String(),
	}).Debug("Configuration loaded")
	return nil
}

func loadConfig(path string) (config.Config, error) {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return config.LoadConfigFile(path)
	}
	return config.LoadConfig(path)
}

// newExtractor wires the upstream client into an extraction service.
func (a *app) newExtractor(m *metrics.Metrics) (*extractor.Service, error) {
	if err := a.cfg.RequireUpstream(); err != nil {
		return nil, err
	}
	client := upstream.NewRapidAPIClient(upstream.Config{
		Host:    a.cfg.RapidAPIHost,
		APIKey:  a.cfg.RapidAPIKey,
		BaseURL: a.upstreamURL,
		Timeout: a.cfg.UpstreamTimeout,
	}, a.log)

	return extractor.NewService(client, a.log,
		extractor.WithMetrics(m),
		extractor.WithDemoMode(a.cfg.DemoMode),
	), nil
}
