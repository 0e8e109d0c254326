package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/config"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/handler"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
)

const checkEngineName = "bedrockctl"

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a registrations file",
	Long: `Validates the engine credentials and every model of a YAML registrations file
and prints the serialized model parameters as JSON. ${VAR} references in the
file are expanded from the environment after the env file is loaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// checkOffline skips every call to Bedrock.
var checkOffline bool

func init() {
	checkCmd.Flags().BoolVar(&checkOffline, "offline", false, "Only check the parameters, without contacting Bedrock")
	rootCmd.AddCommand(checkCmd)
}

// checkReport is printed by the check command.
type checkReport struct {
	Engine checkEngine               `json:"engine"`
	Models map[string]map[string]any `json:"models"`
}

type checkEngine struct {
	Region   string `json:"region_name"`
	Verified bool   `json:"verified"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	regs, err := config.LoadRegistrations(args[0])
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	var report checkReport
	if checkOffline {
		report, err = parseRegistrations(regs)
	} else {
		report, err = verifyRegistrations(cmd.Context(), regs, logger)
	}
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func parseRegistrations(regs config.Registrations) (checkReport, error) {
	values, err := handler.NormalizeEngineArgs(regs.Engine)
	if err != nil {
		return checkReport{}, fmt.Errorf("engine: %w", err)
	}
	engine, err := settings.ParseEngineConfig(values)
	if err != nil {
		return checkReport{}, fmt.Errorf("engine: %w", err)
	}

	report := checkReport{
		Engine: checkEngine{Region: engine.RegionName},
		Models: make(map[string]map[string]any, len(regs.Models)),
	}
	for _, m := range regs.Models {
		if m.Using == nil {
			return checkReport{}, fmt.Errorf("model %q: %w", m.Name, handler.ErrMissingUsing)
		}
		cfg, err := settings.ParseModelConfig(m.Using)
		if err != nil {
			return checkReport{}, fmt.Errorf("model %q: %w", m.Name, err)
		}
		report.Models[m.Name] = cfg.Dump()
	}
	return report, nil
}

func verifyRegistrations(ctx context.Context, regs config.Registrations, logger *slog.Logger) (checkReport, error) {
	factory, err := clientFactory(logger)
	if err != nil {
		return checkReport{}, err
	}
	h := handler.New(factory, logger, nil)

	engine, err := h.CreateEngine(ctx, checkEngineName, regs.Engine)
	if err != nil {
		return checkReport{}, fmt.Errorf("engine: %w", err)
	}

	report := checkReport{
		Engine: checkEngine{Region: engine.Config.RegionName, Verified: true},
		Models: make(map[string]map[string]any, len(regs.Models)),
	}
	for _, m := range regs.Models {
		model, err := h.CreateModel(ctx, handler.CreateModelRequest{
			Name:   m.Name,
			Engine: checkEngineName,
			Target: m.Target,
			Using:  m.Using,
		})
		if err != nil {
			return checkReport{}, fmt.Errorf("model %q: %w", m.Name, err)
		}
		report.Models[m.Name] = model.Config.Dump()
	}
	return report, nil
}
