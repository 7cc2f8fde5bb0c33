// Load envs from .env and the credentials file
// Load YAML config
// Override with env vars, provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-hiring-harvester/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "configs/config.yaml"
	CredentialsFile = ".creds.env"

	defaultSubject = "Application for Position"
	defaultBody    = "Dear Hiring Manager,\n\nPlease find my resume attached.\n\nSincerely,\nApplicant"
)

type Position struct {
	Keywords     []string `yaml:"keywords"`
	EmailSubject string   `yaml:"email_subject"`
	EmailBody    string   `yaml:"email_body"`
	ResumePath   string   `yaml:"resume_path"`
}

type Harvest struct {
	Budget            time.Duration `yaml:"budget"`
	SettleInterval    time.Duration `yaml:"settle_interval"`
	ItemWait          time.Duration `yaml:"item_wait"`
	ExhaustionRetries int           `yaml:"exhaustion_retries"`
	Headless          bool          `yaml:"headless"`
	ScreenshotsDir    string        `yaml:"screenshots_dir"`
}

type Config struct {
	JobPositions map[string]Position `yaml:"job_positions"`

	// SMTP
	SMTPServer        string `yaml:"smtp_server"`
	SMTPPort          int    `yaml:"smtp_port"`
	DefaultResumePath string `yaml:"default_resume_path"`

	// Paths
	CookiesPath      string `yaml:"cookies_path"`
	OutputDir        string `yaml:"output_dir"`
	SentRegisterPath string `yaml:"sent_register_path"`

	// Optional sinks
	DatabaseURL    string `yaml:"database_url"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	Harvest Harvest `yaml:"harvest"`
}

// UnknownPositionError names the position that was asked for and the ones
// that are configured.
type UnknownPositionError struct {
	Name      string
	Available []string
}

func (e *UnknownPositionError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("job position %q not found: no positions configured", e.Name)
	}
	return fmt.Sprintf("job position %q not found, available positions: %s", e.Name, strings.Join(e.Available, ", "))
}

// Load reads path (YAML, or JSON) on top of the environment. A missing file
// only logs a warning so that a pure env setup still validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	_ = godotenv.Load(CredentialsFile)

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		log.Printf("⚠️ Could not read %s: %v", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.SMTPServer = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		c.SMTPPort = port
	}
	if v := os.Getenv("HARVEST_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HARVEST_HEADLESS: %w", err)
		}
		c.Harvest.Headless = headless
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.SMTPPort == 0 {
		c.SMTPPort = 465
	}
	if c.CookiesPath == "" {
		c.CookiesPath = ".cookies"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.SentRegisterPath == "" {
		c.SentRegisterPath = "sent_emails.json"
	}
	if c.Harvest.Budget == 0 {
		c.Harvest.Budget = 2 * time.Minute
	}
	if c.Harvest.SettleInterval == 0 {
		c.Harvest.SettleInterval = 2 * time.Second
	}
	if c.Harvest.ItemWait == 0 {
		c.Harvest.ItemWait = 10 * time.Second
	}
	if c.Harvest.ScreenshotsDir == "" {
		c.Harvest.ScreenshotsDir = "screenshots"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.JobPositions) == 0 {
		errs = append(errs, errors.New("job_positions: at least one position is required"))
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("smtp_port: %d is out of range", c.SMTPPort))
	}
	if c.Harvest.Budget < 0 || c.Harvest.SettleInterval < 0 || c.Harvest.ItemWait < 0 {
		errs = append(errs, errors.New("harvest: durations must not be negative"))
	}
	if c.Harvest.ExhaustionRetries < 0 {
		errs = append(errs, errors.New("harvest: exhaustion_retries must not be negative"))
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		errs = append(errs, errors.New("telegram: token and chat id must be set together"))
	}
	return errors.Join(errs...)
}

// PositionNames returns the configured positions in sorted order.
func (c *Config) PositionNames() []string {
	names := make([]string, 0, len(c.JobPositions))
	for name := range c.JobPositions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Position returns the named position with the mail fallbacks filled in.
func (c *Config) Position(name string) (Position, error) {
	p, ok := c.JobPositions[name]
	if !ok {
		return Position{}, &UnknownPositionError{Name: name, Available: c.PositionNames()}
	}
	if p.EmailSubject == "" {
		p.EmailSubject = defaultSubject
	}
	if p.EmailBody == "" {
		p.EmailBody = defaultBody
	}
	if p.ResumePath == "" {
		p.ResumePath = c.DefaultResumePath
	}
	return p, nil
}

func (c *Config) Intent(name string) (models.SearchIntent, error) {
	p, err := c.Position(name)
	if err != nil {
		return models.SearchIntent{}, err
	}
	return models.SearchIntent{TargetPosition: name, Keywords: p.Keywords}, nil
}
