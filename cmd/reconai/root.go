package main

import (
	"context"

	"github.com/spf13/cobra"

	"reconai/cmd/reconai/scan"
	"reconai/cmd/reconai/server"
)

func Execute() error {
	var rootCmd = &cobra.Command{
		Use:   "reconai",
		Short: "AI-assisted OSINT reconnaissance",
		Long:  `ReconAI gathers open-source intelligence about a target with concurrent collection modules and an optional LLM analysis pass`,
	}

	rootCmd.AddCommand(scan.NewScanCommand())
	rootCmd.AddCommand(server.NewServerCommand())
	return rootCmd.ExecuteContext(context.Background())
}
