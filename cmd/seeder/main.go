package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/locvowork/timekeeper/internal/bootstrap"
	"github.com/locvowork/timekeeper/internal/database"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	rosterFile := flag.String("roster", "", "JSON roster file (default: built-in roster)")
	keepHistory := flag.Bool("keep-history", false, "Keep local attendance history when seeding")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 TimeKeeper Roster Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize storage
	fmt.Println("📡 Initializing storage...")
	app := bootstrap.NewApp()
	if err := app.InitStorage(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize storage: %v", err)
		log.Fatal(err)
	}
	defer app.Close(ctx)

	// An in-memory document store would be lost on exit
	var remote domain.DocumentStore
	if app.RemoteConfigured {
		remote = app.Remote
	} else {
		fmt.Println("ℹ️  No Datastore project configured, writing local storage only")
	}
	seeder := database.NewDataSeeder(app.Repo, remote)

	// Execute action
	switch *action {
	case "seed":
		performSeed(ctx, seeder, *rosterFile, *keepHistory, *yes)

	case "clear":
		performClear(ctx, seeder, *yes)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		os.Exit(2)
	}

	fmt.Println("\n✅ Done!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, rosterFile string, keepHistory, yes bool) {
	roster := database.DefaultRoster()
	if rosterFile != "" {
		data, err := os.ReadFile(rosterFile)
		if err != nil {
			log.Fatalf("❌ Failed to read roster: %v", err)
		}
		if err := json.Unmarshal(data, &roster); err != nil {
			log.Fatalf("❌ Invalid roster file: %v", err)
		}
	}
	fmt.Printf("📊 Seeding %d employees (keep history: %t)\n", len(roster), keepHistory)

	if !keepHistory && !confirm("⚠️  This replaces the roster and erases attendance history!", yes) {
		fmt.Println("Cancelled.")
		return
	}

	if _, err := seeder.SeedRoster(ctx, roster, keepHistory); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !confirm("⚠️  This will delete the roster and all attendance history!", yes) {
		fmt.Println("Cancelled.")
		return
	}
	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("❌ Clear failed: %v", err)
	}
}

func confirm(warning string, yes bool) bool {
	if yes {
		return true
	}
	fmt.Println(warning)
	fmt.Print("Continue? (yes/no): ")

	var response string
	fmt.Scanln(&response)
	return response == "yes"
}
