package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the foundation models visible to a set of credentials",
	Long: `Lists the Bedrock foundation models. Credentials are read from the flags or,
when unset, from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN
and AWS_REGION.`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

var (
	modelsAccessKeyID     string
	modelsSecretAccessKey string
	modelsSessionToken    string
	modelsRegion          string
	modelsTextOnly        bool
)

func init() {
	flags := modelsCmd.Flags()
	flags.StringVar(&modelsAccessKeyID, "access-key-id", "", "AWS access key id")
	flags.StringVar(&modelsSecretAccessKey, "secret-access-key", "", "AWS secret access key")
	flags.StringVar(&modelsSessionToken, "session-token", "", "AWS session token for temporary credentials")
	flags.StringVar(&modelsRegion, "region", "", "AWS region")
	flags.BoolVar(&modelsTextOnly, "text", false, "Only list models usable in the default mode")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	values := map[string]any{
		settings.FieldAccessKeyID:     firstNonEmpty(modelsAccessKeyID, os.Getenv("AWS_ACCESS_KEY_ID")),
		settings.FieldSecretAccessKey: firstNonEmpty(modelsSecretAccessKey, os.Getenv("AWS_SECRET_ACCESS_KEY")),
		settings.FieldRegionName:      firstNonEmpty(modelsRegion, os.Getenv("AWS_REGION")),
	}
	if token := firstNonEmpty(modelsSessionToken, os.Getenv("AWS_SESSION_TOKEN")); token != "" {
		values[settings.FieldSessionToken] = token
	}
	engine, err := settings.ParseEngineConfig(values)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	factory, err := clientFactory(logger)
	if err != nil {
		return err
	}
	client, err := factory(cmd.Context(), engine.Credentials())
	if err != nil {
		return err
	}
	models, err := client.ListModels(cmd.Context())
	if err != nil {
		return err
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL ID\tPROVIDER\tOUTPUT")
	for _, m := range models {
		if modelsTextOnly && !m.SupportsOutput(bedrock.ModalityText) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Provider, strings.Join(m.OutputModalities, ","))
	}
	return w.Flush()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
