package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-hiring-harvester/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Harvest hiring posts from LinkedIn and mail the recruiters",
	Long: `Searches the LinkedIn content feed for hiring posts about a job position,
collects the contact addresses they mention and optionally sends your
application to every address that has not been contacted yet.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML (or JSON) config file")
}

// signalContext is cancelled on Ctrl-C so that a running harvest still
// writes what it collected.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
