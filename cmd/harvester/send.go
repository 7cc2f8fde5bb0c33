package main

import (
	"context"
	"errors"
	"log"

	"go-hiring-harvester/internal/artifact"
	"go-hiring-harvester/internal/config"
	"go-hiring-harvester/internal/dedup"
	"go-hiring-harvester/internal/mailer"

	"github.com/spf13/cobra"
)

var sendPosition string

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mail the addresses of an earlier harvest",
	Long: `Reads linkedin_posts_<position>.json from the output directory and sends
the configured application mail to every address not yet in the sent register.`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendPosition, "position", "p", "", "job position, as named in job_positions")
	_ = sendCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if _, err := cfg.Position(sendPosition); err != nil {
		return err
	}

	result, err := artifact.NewStore(cfg.OutputDir).Read(sendPosition)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	err = sendCampaign(ctx, cfg, sendPosition, result.AllContactAddresses)
	if err != nil {
		notifyError(newBot(cfg), err)
	}
	return err
}

func sendCampaign(ctx context.Context, cfg *config.Config, position string, addresses []string) error {
	pos, err := cfg.Position(position)
	if err != nil {
		return err
	}
	creds := config.LoadCredentials()
	if creds.SMTPUsername == "" || creds.SMTPPassword == "" {
		return errors.New("SMTP credentials are missing, run `harvester setup-creds` first")
	}
	if cfg.SMTPServer == "" {
		return errors.New("smtp_server is not configured")
	}

	client, err := mailer.NewSMTPClient(cfg.SMTPServer, cfg.SMTPPort, creds.SMTPUsername, creds.SMTPPassword)
	if err != nil {
		return err
	}
	register := dedup.NewSentRegister(cfg.SentRegisterPath)
	report, err := mailer.New(client, register).Send(ctx, mailer.Campaign{
		Position:   position,
		From:       creds.SMTPUsername,
		Subject:    pos.EmailSubject,
		Body:       pos.EmailBody,
		ResumePath: pos.ResumePath,
	}, addresses)

	log.Printf("\n%s", report)
	return err
}
