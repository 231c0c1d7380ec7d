package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"mathquest/internal/config"
	"mathquest/internal/database"
	"mathquest/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: snapshot_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")

	// Reset flags
	resetLearner := resetCmd.Int64("learner", 0, "Learner id whose study data should be wiped (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	snapshotService := service.NewSnapshotService(db)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(snapshotService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(snapshotService, *importInput)

	case "reset":
		resetCmd.Parse(os.Args[2:])
		if *resetLearner <= 0 {
			fmt.Println("Error: -learner flag is required")
			resetCmd.PrintDefaults()
			os.Exit(1)
		}
		handleReset(snapshotService, *resetLearner)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(snapshotService *service.SnapshotService, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("snapshot_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	if err := snapshotService.Export(outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.2f MB", float64(fileInfo.Size())/1024/1024)
}

func handleImport(snapshotService *service.SnapshotService, inputPath string) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	fmt.Print("This replaces the study data of every learner named in the snapshot. Type 'yes' to confirm: ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "yes" {
		log.Println("Import cancelled")
		return
	}

	if err := snapshotService.Import(inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func handleReset(snapshotService *service.SnapshotService, learnerID int64) {
	fmt.Printf("This wipes all study data for learner %d. Type 'yes' to confirm: ", learnerID)
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "yes" {
		log.Println("Reset cancelled")
		return
	}

	if err := snapshotService.Reset(learnerID); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}
}

func printUsage() {
	fmt.Println("MathQuest Study Data Snapshot Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snapshot export [options]    Export study data to a JSON file")
	fmt.Println("  snapshot import [options]    Restore study data from a JSON file")
	fmt.Println("  snapshot reset [options]     Wipe one learner's study data")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: snapshot_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println()
	fmt.Println("Reset Options:")
	fmt.Println("  -learner <id>     Learner id (required)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  snapshot export")
	fmt.Println("  snapshot export -output progress.json")
	fmt.Println("  snapshot import -input progress.json")
	fmt.Println("  snapshot reset -learner 3")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./mathquest.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
