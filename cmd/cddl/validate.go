package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"goa.design/cddl"
	"goa.design/cddl/interp"
)

func newValidateJSONCommand(v *viper.Viper) *cobra.Command {
	var cddlPath, jsonPath string
	cmd := &cobra.Command{
		Use:   "validate-json",
		Short: "Validate a JSON document against a CDDL schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(v, cddlPath, jsonPath, cddl.ValidateJSON)
		},
	}
	cmd.Flags().StringVar(&cddlPath, "cddl", "", "path to the CDDL schema file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "path to the JSON instance file")
	cmd.MarkFlagRequired("cddl")
	cmd.MarkFlagRequired("json")
	return cmd
}

func newValidateCBORCommand(v *viper.Viper) *cobra.Command {
	var cddlPath, cborPath string
	cmd := &cobra.Command{
		Use:   "validate-cbor",
		Short: "Validate a CBOR document against a CDDL schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(v, cddlPath, cborPath, cddl.ValidateCBOR)
		},
	}
	cmd.Flags().StringVar(&cddlPath, "cddl", "", "path to the CDDL schema file")
	cmd.Flags().StringVar(&cborPath, "cbor", "", "path to the CBOR instance file")
	cmd.MarkFlagRequired("cddl")
	cmd.MarkFlagRequired("cbor")
	return cmd
}

// validateFn is the shape shared by cddl.ValidateJSON and cddl.ValidateCBOR.
type validateFn func(ctx context.Context, cddlText string, instance []byte, opts ...cddl.Option) (*interp.Result, error)

func runValidate(v *viper.Viper, cddlPath, instancePath string, validate validateFn) error {
	cddlText, err := os.ReadFile(cddlPath)
	if err != nil {
		return fmt.Errorf("reading CDDL schema %s: %w", cddlPath, err)
	}
	instance, err := os.ReadFile(instancePath)
	if err != nil {
		return fmt.Errorf("reading instance %s: %w", instancePath, err)
	}

	logger, tracer := newTelemetry()
	ctx := loggerContext(v)

	result, err := validate(ctx, string(cddlText), instance,
		cddl.WithMaxDepth(v.GetInt("max-depth")),
		cddl.WithLogger(logger),
		cddl.WithTracer(tracer),
	)
	if err != nil {
		return err
	}
	if result.OK() {
		fmt.Println("OK")
		return nil
	}
	for _, e := range interp.Flatten(result.Errors.AsError()) {
		fmt.Fprintln(os.Stderr, e)
	}
	return validationFailure(fmt.Errorf("%d validation error(s)", len(interp.Flatten(result.Errors.AsError()))))
}
