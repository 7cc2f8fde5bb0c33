package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-hiring-harvester/internal/artifact"
	"go-hiring-harvester/internal/browser"
	"go-hiring-harvester/internal/config"
	"go-hiring-harvester/internal/database"
	"go-hiring-harvester/internal/harvest"
	"go-hiring-harvester/internal/models"
	"go-hiring-harvester/internal/query"
	"go-hiring-harvester/internal/session"
	"go-hiring-harvester/internal/telegram"
	"go-hiring-harvester/utils"

	"github.com/spf13/cobra"
)

var (
	harvestPosition string
	harvestApply    bool
	harvestBudget   time.Duration
	harvestHeadless bool
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Search the feed for hiring posts about a position",
	Long: `Logs in (reusing the saved session when it is still valid), searches the
content feed for "<keywords> AND hiring" and scrolls it until the time budget
runs out or no more posts load. The result is written to
linkedin_posts_<position>.json in the output directory.`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVarP(&harvestPosition, "position", "p", "", "job position, as named in job_positions")
	harvestCmd.Flags().BoolVar(&harvestApply, "apply", false, "mail the harvested addresses afterwards")
	harvestCmd.Flags().DurationVar(&harvestBudget, "budget", 0, "time budget for the scroll loop (overrides harvest.budget)")
	harvestCmd.Flags().BoolVar(&harvestHeadless, "headless", false, "run the browser without a window (overrides harvest.headless)")
	_ = harvestCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	intent, err := cfg.Intent(harvestPosition)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("budget") {
		cfg.Harvest.Budget = harvestBudget
	}
	if cmd.Flags().Changed("headless") {
		cfg.Harvest.Headless = harvestHeadless
	}

	ctx, stop := signalContext()
	defer stop()

	bot := newBot(cfg)
	log.Printf("🚀 Starting job search for: %s", intent.TargetPosition)
	if bot != nil {
		if sendErr := bot.SendStarted(intent.TargetPosition, query.BuildSearchTarget(intent).Expression); sendErr != nil {
			log.Printf("⚠️ Failed to send Telegram status: %v", sendErr)
		}
	}

	result, report, err := harvestFeed(ctx, cfg, intent)
	if err != nil {
		notifyError(bot, err)
		if result == nil {
			return err
		}
		log.Println(partialOutcome(result, err))
	} else if bot != nil {
		if sendErr := bot.SendSummary(result, report); sendErr != nil {
			log.Printf("⚠️ Failed to send Telegram summary: %v", sendErr)
		}
	}

	if harvestApply {
		if len(result.AllContactAddresses) == 0 {
			log.Println("📭 No email addresses found, nothing to send.")
		} else if sendErr := sendCampaign(ctx, cfg, intent.TargetPosition, result.AllContactAddresses); sendErr != nil {
			notifyError(bot, sendErr)
			err = errors.Join(err, sendErr)
		}
	}
	return err
}

// harvestFeed runs one harvest for intent and returns the finalized result
// together with the loop report.
func harvestFeed(ctx context.Context, cfg *config.Config, intent models.SearchIntent) (*models.HarvestResult, harvest.Report, error) {
	pm, err := browser.NewPlaywright(ctx, cfg.Harvest.Headless)
	if err != nil {
		return nil, harvest.Report{}, fmt.Errorf("failed to init playwright: %w", err)
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Printf("⚠️ Failed to stop browser: %v", err)
		}
	}()

	page, err := pm.OpenPage()
	if err != nil {
		return nil, harvest.Report{}, err
	}
	log.Println("✅ Browser initialized successfully!")

	creds := config.LoadCredentials()
	sessions := session.NewManager(session.LinkedIn, page, browser.NewSessionStore(cfg.CookiesPath))
	if _, err := sessions.EnsureSession(ctx, session.Credentials{
		Username: creds.LinkedInEmail,
		Password: creds.LinkedInPassword,
	}); err != nil {
		shots := utils.NewScreenShotDebugger(cfg.Harvest.ScreenshotsDir)
		_, _ = shots.CaptureAndLog(page.Raw(), "login_failed", "Login failed, capturing the page")
		page.Close()
		return nil, harvest.Report{}, err
	}

	sinks := []harvest.Sink{artifact.NewStore(cfg.OutputDir)}
	if repo := connectMirror(ctx, cfg); repo != nil {
		defer repo.Close()
		sinks = append(sinks, repo)
	}

	target := query.BuildSearchTarget(intent)
	h := harvest.NewHarvester(page, harvest.NewAggregator(sinks...), harvest.Options{
		Budget:            cfg.Harvest.Budget,
		SettleInterval:    cfg.Harvest.SettleInterval,
		ItemWait:          cfg.Harvest.ItemWait,
		ExhaustionRetries: cfg.Harvest.ExhaustionRetries,
	})
	result, err := h.Run(ctx, intent.TargetPosition, target)
	return result, h.Report(), err
}

// partialOutcome describes what is on disk after a harvest that produced a
// result but still failed.
func partialOutcome(result *models.HarvestResult, err error) string {
	switch {
	case errors.Is(err, artifact.ErrNotSaved):
		return fmt.Sprintf("❌ %d posts were collected but could not be saved", len(result.Posts))
	case errors.Is(err, harvest.ErrDriverFatal):
		return fmt.Sprintf("⚠️ Harvest ended early, %d posts were still saved", len(result.Posts))
	default:
		return fmt.Sprintf("⚠️ Saved %d posts, but a result sink failed", len(result.Posts))
	}
}

// connectMirror opens the optional database mirror. It never fails the
// harvest; a broken mirror is logged and skipped.
func connectMirror(ctx context.Context, cfg *config.Config) *database.Repository {
	if cfg.DatabaseURL == "" {
		return nil
	}
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("⚠️ Database mirror disabled: %v", err)
		return nil
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("⚠️ Database mirror disabled: %v", err)
		repo.Close()
		return nil
	}
	log.Println("🗄️ Database mirror connected.")
	return repo
}

func newBot(cfg *config.Config) *telegram.Bot {
	if cfg.TelegramToken == "" {
		return nil
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram Bot: %v", err)
		return nil
	}
	log.Println("🤖 Telegram Bot initialized.")
	return bot
}

func notifyError(bot *telegram.Bot, err error) {
	if bot == nil {
		return
	}
	if sendErr := bot.SendError(err); sendErr != nil {
		log.Printf("⚠️ Failed to send Telegram error: %v", sendErr)
	}
}
