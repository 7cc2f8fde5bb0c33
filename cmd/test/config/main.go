package main

import (
	"flag"
	"fmt"
	"log"

	"go-hiring-harvester/internal/config"
	"go-hiring-harvester/internal/query"
)

func main() {
	path := flag.String("config", config.DefaultPath, "config file")
	flag.Parse()

	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   SMTP: %s:%d\n", cfg.SMTPServer, cfg.SMTPPort)
	fmt.Printf("   Cookies Path: %s\n", cfg.CookiesPath)
	fmt.Printf("   Output Dir: %s\n", cfg.OutputDir)
	fmt.Printf("   Harvest budget: %v (headless: %t)\n", cfg.Harvest.Budget, cfg.Harvest.Headless)
	fmt.Printf("   Telegram: %t, Database: %t\n", cfg.TelegramToken != "", cfg.DatabaseURL != "")

	for _, name := range cfg.PositionNames() {
		intent, _ := cfg.Intent(name)
		fmt.Printf("   - %s -> %s\n", name, query.BuildSearchTarget(intent).Expression)
	}

	creds := config.LoadCredentials()
	fmt.Printf("   LinkedIn login set: %t, SMTP login set: %t\n", creds.LinkedInEmail != "", creds.SMTPUsername != "")
}
