package main

import (
	"fmt"

	"github.com/Veraticus/radstage/internal/llm"
	"github.com/spf13/cobra"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported generative models",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, m := range llm.Models() {
				marker := " "
				if m == llm.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-40s %s\n", marker, m, m.ProviderName())
			}
		},
	}
}
