package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go-hiring-harvester/internal/browser"
	"go-hiring-harvester/internal/harvest"
	"go-hiring-harvester/internal/models"
	"go-hiring-harvester/internal/query"
	"go-hiring-harvester/internal/session"
	"go-hiring-harvester/utils"
)

func main() {
	dir := flag.String("cookies", ".cookies", "session directory")
	position := flag.String("position", "Go Developer", "position to search for")
	headless := flag.Bool("headless", false, "hide the browser window")
	flag.Parse()

	fmt.Println("🌐 Testing Browser Manager...")

	pm, err := browser.NewPlaywright(context.Background(), *headless)
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()
	fmt.Println("✅ Playwright started")

	store := browser.NewSessionStore(*dir)
	cookies, err := store.Load(session.LinkedIn.Origin)
	if err != nil {
		log.Fatalf("Failed to load session: %v", err)
	}
	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	page, err := pm.OpenPage()
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}
	defer page.Close()
	if err := page.AddCookies(cookies); err != nil {
		log.Fatalf("Failed to add cookies: %v", err)
	}

	target := query.BuildSearchTarget(models.SearchIntent{TargetPosition: *position})
	fmt.Printf("🔍 Navigating to %s\n", target.URL)
	if err := page.Goto(target.URL); err != nil {
		log.Fatalf("Failed to navigate: %v", err)
	}

	sel := harvest.LinkedInSelectors
	if err := page.WaitFor(sel.Item, 15*time.Second); err != nil {
		log.Printf("⚠️ No posts rendered: %v", err)
	} else if items, err := page.Snapshot(sel.Item, sel.IDAttribute); err != nil {
		log.Printf("⚠️ Snapshot failed: %v", err)
	} else {
		fmt.Printf("✅ %d posts rendered\n", len(items))
	}

	shots := utils.NewScreenShotDebugger(".")
	if _, err := shots.CaptureAndLog(page.Raw(), "feed", "Capturing search results"); err != nil {
		log.Printf("Failed to take screenshot: %v", err)
	}
	fmt.Println("✨ Test complete!")
}
