package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
job_positions:
  Flutter Developer:
    keywords: ["Flutter", "Dart"]
    email_subject: "Flutter application"
    resume_path: "resumes/flutter.pdf"
  Go Engineer: {}
smtp_server: smtp.example.com
default_resume_path: resumes/default.pdf
output_dir: out
harvest:
  budget: 90s
  exhaustion_retries: 2
  headless: true
`

func clearEnv(t *testing.T) {
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL", "SMTP_SERVER", "SMTP_PORT", "HARVEST_HEADLESS"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, sampleYAML))

	require.NoError(t, err)
	assert.Equal(t, []string{"Flutter Developer", "Go Engineer"}, cfg.PositionNames())
	assert.Equal(t, "smtp.example.com", cfg.SMTPServer)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, ".cookies", cfg.CookiesPath)
	assert.Equal(t, "sent_emails.json", cfg.SentRegisterPath)
	assert.Equal(t, 90*time.Second, cfg.Harvest.Budget)
	assert.Equal(t, 2*time.Second, cfg.Harvest.SettleInterval)
	assert.Equal(t, 10*time.Second, cfg.Harvest.ItemWait)
	assert.Equal(t, 2, cfg.Harvest.ExhaustionRetries)
	assert.True(t, cfg.Harvest.Headless)
}

func TestLoad_AcceptsJSON(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, `{"job_positions": {"Go": {"keywords": ["golang"]}}, "smtp_port": 587}`))

	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"golang"}, cfg.JobPositions["Go"].Keywords)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("HARVEST_HEADLESS", "false")

	cfg, err := Load(writeConfig(t, sampleYAML))

	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.False(t, cfg.Harvest.Headless)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "malformed yaml", content: "job_positions: [unclosed"},
		{name: "no positions", content: "smtp_server: x"},
		{name: "bad chat id", content: sampleYAML, env: map[string]string{"TELEGRAM_CHAT_ID": "abc"}},
		{name: "token without chat", content: sampleYAML, env: map[string]string{"TELEGRAM_BOT_TOKEN": "t"}},
		{name: "negative retries", content: "job_positions: {Go: {}}\nharvest: {exhaustion_retries: -1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestPosition_FallbacksAndUnknown(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	flutter, err := cfg.Position("Flutter Developer")
	require.NoError(t, err)
	assert.Equal(t, "Flutter application", flutter.EmailSubject)
	assert.Equal(t, defaultBody, flutter.EmailBody)
	assert.Equal(t, "resumes/flutter.pdf", flutter.ResumePath)

	goEng, err := cfg.Position("Go Engineer")
	require.NoError(t, err)
	assert.Equal(t, defaultSubject, goEng.EmailSubject)
	assert.Equal(t, "resumes/default.pdf", goEng.ResumePath)

	intent, err := cfg.Intent("Flutter Developer")
	require.NoError(t, err)
	assert.Equal(t, "Flutter Developer", intent.TargetPosition)
	assert.Equal(t, []string{"Flutter", "Dart"}, intent.Keywords)

	_, err = cfg.Intent("Rust Developer")
	var unknown *UnknownPositionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"Flutter Developer", "Go Engineer"}, unknown.Available)
	assert.Contains(t, err.Error(), "Flutter Developer, Go Engineer")
}

func TestWriteCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFile)
	creds := Credentials{
		LinkedInEmail:    "me@example.com",
		LinkedInPassword: "s3cr3t!",
		SMTPUsername:     "me@example.com",
		SMTPPassword:     "app password",
	}

	require.NoError(t, WriteCredentials(path, creds))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t!", env["LINKEDIN_PASSWORD"])
	assert.Equal(t, "app password", env["SMTP_PASSWORD"])
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("LINKEDIN_EMAIL", "me@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "pw")
	t.Setenv("SMTP_USERNAME", "smtp-user")
	t.Setenv("SMTP_PASSWORD", "smtp-pw")

	assert.Equal(t, Credentials{
		LinkedInEmail:    "me@example.com",
		LinkedInPassword: "pw",
		SMTPUsername:     "smtp-user",
		SMTPPassword:     "smtp-pw",
	}, LoadCredentials())
}
