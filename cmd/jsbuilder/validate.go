package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reoring/jsbuilder"
	"github.com/reoring/jsbuilder/schemaio"
)

// errInvalid is returned after the issues were already printed.
var errInvalid = errors.New("instance is invalid")

func newValidateCmd() *cobra.Command {
	var (
		configPath string
		list       bool
	)
	cmd := &cobra.Command{
		Use:   "validate SCHEMA INSTANCE",
		Short: "Validate an instance and print the prepared value",
		Long: `Validates INSTANCE (JSON or YAML) against SCHEMA. On success the value is
printed with defaults applied according to the validation config. With --list
INSTANCE must be a non-empty array whose elements each match SCHEMA.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaio.LoadSchema(args[0])
			if err != nil {
				return err
			}
			doc, err := jsbuilder.FromSchema(s)
			if err != nil {
				return err
			}
			if configPath != "" {
				cfg, err := schemaio.LoadConfig(configPath)
				if err != nil {
					return err
				}
				doc = doc.ConfigureValidation(cfg)
			}
			instance, err := schemaio.LoadInstance(args[1])
			if err != nil {
				return err
			}

			var out any
			if list {
				items, ok := instance.([]any)
				if !ok {
					return fmt.Errorf("%s: --list expects an array instance", args[1])
				}
				out, err = doc.ValidateList(items)
			} else {
				out, err = doc.Validate(instance)
			}
			if iss, ok := jsbuilder.AsIssues(err); ok {
				printIssues(cmd.OutOrStdout(), iss)
				return errInvalid
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Validation config file (JSON or YAML)")
	cmd.Flags().BoolVar(&list, "list", false, "Validate INSTANCE as a list of values")
	return cmd
}

func printIssues(w io.Writer, iss jsbuilder.Issues) {
	red := color.New(color.FgRed, color.Bold)
	faint := color.New(color.Faint)
	for _, it := range iss {
		path := it.Path
		if path == "" {
			path = "/"
		}
		red.Fprint(w, "✗ ")
		fmt.Fprintf(w, "%s ", path)
		faint.Fprintf(w, "[%s] ", it.Code)
		fmt.Fprintln(w, it.Message)
	}
}
