package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/adapterinfo"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "bedrockctl",
	Short:        "Check Amazon Bedrock registrations",
	Long:         adapterinfo.Info.Name + ": validate engine credentials and model parameters the way the adapter does.",
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return loadDotEnv(envFile)
	},
}

// Flags shared by every subcommand.
var (
	envFile  string
	useStub  bool
	endpoint string
	verbose  bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "Environment file loaded before running")
	flags.BoolVar(&useStub, "stub", false, "Use the built-in stub catalogue instead of AWS")
	flags.StringVar(&endpoint, "endpoint", "", "Override the Bedrock endpoint URL")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// clientFactory builds the Bedrock clients selected by the shared flags.
func clientFactory(logger *slog.Logger) (bedrock.ClientFactory, error) {
	cfg := config.Config{
		ListenAddr:    config.DefaultListenAddr,
		UseStubClient: useStub,
		Endpoint:      endpoint,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return bedrock.NewFactory(cfg, logger), nil
}
