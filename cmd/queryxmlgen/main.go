// Command queryxmlgen generates XML serialization procedures for the
// operations of a service described by a JSON shape document.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protoforge/queryxml"
	"github.com/protoforge/queryxml/internal/modeljson"
	"github.com/protoforge/queryxml/internal/reachwalk"
	"github.com/protoforge/queryxml/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "queryxmlgen",
		Short:         "Generate XML serializers from a shape document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newGenerateCmd(), newInspectCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		modelPath      string
		configPath     string
		outDir         string
		service        string
		pkg            string
		typesImport    string
		addErr         bool
		ignoreDefaults bool
		parallelism    int
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate serialization procedures for a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := queryxml.Config{}
			if configPath != "" {
				loaded, err := queryxml.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// Flags set on the command line win over the config file.
			if cmd.Flags().Changed("service") {
				cfg.Service = model.ShapeID(service)
			}
			if cmd.Flags().Changed("package") {
				cfg.Package = pkg
			}
			if cmd.Flags().Changed("types-import") {
				cfg.TypesImport = typesImport
			}
			if cmd.Flags().Changed("validation-error") {
				cfg.AddValidationError = addErr
			}
			if cmd.Flags().Changed("ignore-defaults") {
				cfg.IgnoreDefaults = ignoreDefaults
			}

			m, err := modeljson.LoadFile(modelPath)
			if err != nil {
				return err
			}

			opts := []queryxml.Option{queryxml.WithParallelism(parallelism)}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync() //nolint:errcheck
				opts = append(opts, queryxml.WithLogger(logger))
			}

			res, err := queryxml.Generate(m, cfg, opts...)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, f := range res.Files {
				path := filepath.Join(outDir, f.Name)
				if err := os.WriteFile(path, f.Content, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			for _, op := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: no output body\n", op)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "path to the JSON shape document")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML generation config")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for generated sources")
	cmd.Flags().StringVar(&service, "service", "", "service shape identifier")
	cmd.Flags().StringVar(&pkg, "package", "", "generated package name")
	cmd.Flags().StringVar(&typesImport, "types-import", "", "import path of the value types package")
	cmd.Flags().BoolVar(&addErr, "validation-error", false, "attach the validation error contract")
	cmd.Flags().BoolVar(&ignoreDefaults, "ignore-defaults", false, "elide members equal to their declared default")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "operations generated concurrently")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log generation progress")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func newInspectCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List services, operations and their validation analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modeljson.LoadFile(modelPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, svc := range m.Services() {
				fmt.Fprintf(out, "%s (version %s)\n", svc.ID, svc.Version)
				ops, err := m.ServiceOperations(svc.ID)
				if err != nil {
					return err
				}
				for _, op := range ops {
					marker := " "
					if !op.Output.IsZero() {
						marker = "*"
					}
					note := ""
					if !op.Input.IsZero() {
						validating, err := reachwalk.RequiresValidation(m, op.Input)
						if err != nil {
							return err
						}
						if validating {
							note = " (input requires validation)"
						}
					}
					fmt.Fprintf(out, "  %s %s%s\n", marker, op.ID, note)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "path to the JSON shape document")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
