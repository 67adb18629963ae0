package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"goa.design/clue/log"

	"goa.design/cddl/telemetry"
)

func newRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "cddl",
		Short:         "Validate JSON/CBOR documents against a CDDL schema (RFC 8610)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Int("max-depth", 256, "maximum rule-reference/generic-expansion recursion depth")
	root.PersistentFlags().String("log-format", "text", "log output format: text or json")
	root.PersistentFlags().String("config", "", "path to a config file providing defaults for the flags above")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
		}
		v.SetEnvPrefix("CDDL")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if err := v.BindPFlag("max-depth", cmd.Flags().Lookup("max-depth")); err != nil {
			return err
		}
		if err := v.BindPFlag("log-format", cmd.Flags().Lookup("log-format")); err != nil {
			return err
		}
		return nil
	}

	root.AddCommand(newValidateJSONCommand(v), newValidateCBORCommand(v))
	return root
}

// loggerContext builds the ambient logging context for a run (spec §7:
// the CLI wraps each call with a structured debug log via telemetry.Logger).
func loggerContext(v *viper.Viper) context.Context {
	format := log.FormatJSON
	if v.GetString("log-format") != "json" {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	return log.Context(ctx, log.WithDebug())
}

func newTelemetry() (telemetry.Logger, telemetry.Tracer) {
	return telemetry.NewClueLogger(), telemetry.NewClueTracer()
}
