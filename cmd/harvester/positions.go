package main

import (
	"go-hiring-harvester/internal/config"

	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the configured job positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cmd.Println("Available job positions:")
		for _, name := range cfg.PositionNames() {
			cmd.Printf("- %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(positionsCmd)
}
