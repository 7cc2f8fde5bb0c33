package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go-hiring-harvester/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var credsOutput string

var setupCredsCmd = &cobra.Command{
	Use:   "setup-creds",
	Short: "Create the local credentials file",
	Long: `Asks for the LinkedIn login and the SMTP account used to send mail and
stores them in an env file readable only by you. Keep this file out of
version control.`,
	Args: cobra.NoArgs,
	RunE: runSetupCreds,
}

func init() {
	setupCredsCmd.Flags().StringVarP(&credsOutput, "output", "o", config.CredentialsFile, "where to write the credentials")
	rootCmd.AddCommand(setupCredsCmd)
}

func runSetupCreds(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)
	prompt := func(label string, secret bool) (string, error) {
		cmd.Print(label)
		if secret {
			return readSecret(in, reader, cmd.OutOrStdout())
		}
		return readLine(reader)
	}

	cmd.Println("--- Credential Setup ---")
	cmd.Printf("Your details will be saved locally in %s.\n", credsOutput)

	var creds config.Credentials
	fields := []struct {
		label  string
		secret bool
		dst    *string
	}{
		{"Enter your LinkedIn email: ", false, &creds.LinkedInEmail},
		{"Enter your LinkedIn password: ", true, &creds.LinkedInPassword},
		{"Enter your SMTP email address (sending email): ", false, &creds.SMTPUsername},
		{"Enter your SMTP password (app password recommended): ", true, &creds.SMTPPassword},
	}
	for _, f := range fields {
		v, err := prompt(f.label, f.secret)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*f.dst = v
	}

	if err := config.WriteCredentials(credsOutput, creds); err != nil {
		return err
	}
	cmd.Printf("✅ %s created successfully! Remember to keep this file secure.\n", credsOutput)
	return nil
}

// readSecret reads without echo when in is the terminal.
func readSecret(in io.Reader, reader *bufio.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
