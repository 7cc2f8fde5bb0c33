package main

import (
	"go-hiring-harvester/internal/artifact"
	"go-hiring-harvester/internal/config"

	"github.com/spf13/cobra"
)

var exportPosition string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the posts of an earlier harvest as CSV",
	Long: `Converts linkedin_posts_<position>.json into linkedin_posts_<position>.csv
in the output directory, one row per post.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if _, err := cfg.Position(exportPosition); err != nil {
			return err
		}
		path, err := artifact.NewStore(cfg.OutputDir).ExportCSV(exportPosition)
		if err != nil {
			return err
		}
		cmd.Printf("✅ Posts exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPosition, "position", "p", "", "job position, as named in job_positions")
	_ = exportCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(exportCmd)
}
