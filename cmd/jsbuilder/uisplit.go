package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/jsbuilder/schemaio"
	"github.com/reoring/jsbuilder/uischema"
)

func newUISplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui-split SCHEMA",
		Short: "Separate ui:* and uiXxx hints from a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaio.LoadSchema(args[0])
			if err != nil {
				return err
			}
			schema, ui := uischema.Split(s)
			return printJSON(cmd, struct {
				Schema any `json:"schema"`
				UI     any `json:"ui"`
			}{schema, ui})
		},
	}
}
