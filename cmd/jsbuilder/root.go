package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reoring/jsbuilder"
	"github.com/reoring/jsbuilder/i18n"
)

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		lang    string
	)
	root := &cobra.Command{
		Use:           "jsbuilder",
		Short:         "Build, inspect and validate JSON Schema documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			jsbuilder.SetLogger(createLogger(cmd.ErrOrStderr(), verbose))
			if lang != "" {
				i18n.SetLanguage(lang)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log validator compilation to stderr")
	root.PersistentFlags().StringVar(&lang, "lang", "", "Message language (en, ja)")

	root.AddCommand(
		newDefaultsCmd(),
		newValidateCmd(),
		newUISplitCmd(),
		newGenCmd(),
	)
	return root
}

// createLogger returns a debug text logger on w when verbose, or nil so the
// library keeps its discarding default.
func createLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
