package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/jsbuilder/internal/gen"
	"github.com/reoring/jsbuilder/schemaio"
)

func newGenCmd() *cobra.Command {
	var (
		varName string
		pkg     string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "gen SCHEMA",
		Short: "Render Go source that rebuilds a schema with jsbuilder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaio.LoadSchema(args[0])
			if err != nil {
				return err
			}
			code, err := gen.RenderFile(gen.File{
				Package: pkg,
				Vars: []gen.Var{{
					Name:   varName,
					Doc:    fmt.Sprintf("%s is generated from %s.", varName, args[0]),
					Schema: s,
				}},
			})
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(code)
				return err
			}
			return os.WriteFile(out, code, 0o644)
		},
	}
	cmd.Flags().StringVar(&varName, "var", "Schema", "Name of the generated variable")
	cmd.Flags().StringVar(&pkg, "package", "schemas", "Package clause of the generated file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
