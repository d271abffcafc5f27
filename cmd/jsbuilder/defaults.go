package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/jsbuilder/defaults"
	js "github.com/reoring/jsbuilder/jsonschema"
	"github.com/reoring/jsbuilder/schemaio"
)

func newDefaultsCmd() *cobra.Command {
	var definitions string
	cmd := &cobra.Command{
		Use:   "defaults SCHEMA",
		Short: "Print the default instance implied by a schema",
		Long: `Computes the value implied by the default keywords of SCHEMA, following
allOf branches and local #/definitions references. Definitions loaded with
--definitions override the document's own.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaio.LoadSchema(args[0])
			if err != nil {
				return err
			}
			var defs map[string]*js.Schema
			if definitions != "" {
				if defs, err = schemaio.LoadDefinitions(definitions); err != nil {
					return err
				}
			}
			v, ok := defaults.Compute(s, defs)
			if !ok {
				return fmt.Errorf("%s: schema implies no default", args[0])
			}
			return printJSON(cmd, v)
		},
	}
	cmd.Flags().StringVar(&definitions, "definitions", "", "JSON or YAML file mapping definition names to schemas")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
