package main

import (
	"flag"
	"fmt"
	"log"

	"go-hiring-harvester/internal/browser"
	"go-hiring-harvester/internal/session"
)

func main() {
	dir := flag.String("dir", ".cookies", "session directory")
	flag.Parse()

	fmt.Println("🍪 Testing session loading...")

	store := browser.NewSessionStore(*dir)
	cookies, err := store.Load(session.LinkedIn.Origin)
	if err != nil {
		log.Fatalf("Failed to load cookies from %s: %v", store.Path(session.LinkedIn.Origin), err)
	}

	fmt.Printf("✅ Loaded %d cookies from %s\n", len(cookies), store.Path(session.LinkedIn.Origin))

	//Print first cookie as example
	if len(cookies) > 0 {
		c := cookies[0]
		fmt.Printf("\nExample cookie:\n")
		fmt.Printf("Name: %s\n", c.Name)
		fmt.Printf("Domain: %s\n", c.Domain)
		fmt.Printf("Secure: %t\n", c.Secure)
		fmt.Printf("Expires: %.0f\n", c.Expires)
	}
}
