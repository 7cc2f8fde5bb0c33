package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Credentials struct {
	LinkedInEmail    string
	LinkedInPassword string
	SMTPUsername     string
	SMTPPassword     string
}

// LoadCredentials reads the credentials from the environment, which Load
// has already populated from the credentials file.
func LoadCredentials() Credentials {
	return Credentials{
		LinkedInEmail:    os.Getenv("LINKEDIN_EMAIL"),
		LinkedInPassword: os.Getenv("LINKEDIN_PASSWORD"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
	}
}

// WriteCredentials stores c as an env file readable only by the owner.
func WriteCredentials(path string, c Credentials) error {
	env := map[string]string{
		"LINKEDIN_EMAIL":    c.LinkedInEmail,
		"LINKEDIN_PASSWORD": c.LinkedInPassword,
		"SMTP_USERNAME":     c.SMTPUsername,
		"SMTP_PASSWORD":     c.SMTPPassword,
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	return nil
}
