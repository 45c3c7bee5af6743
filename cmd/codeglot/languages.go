package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/codeglot/internal/language"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Supported Languages:")
			for _, l := range language.GetSupportedLanguages() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-30s [%s]\n", l.Name, l.ID)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
