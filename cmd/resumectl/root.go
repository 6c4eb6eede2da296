package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Generate and check tailored resumes",
	Long:          "resumectl runs the resume engine against local profile, job and resume files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
