package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// args holds the command-line arguments
var args struct {
	Folder             string `arg:"positional,required" help:"Folder containing media files"`
	ConfigFile         string `arg:"--config" help:"Path to config file"`
	Update             bool   `arg:"--update" help:"Update EXIF dates (default: analyze only)"`
	DryRun             bool   `arg:"--dry-run" help:"Show what would be updated without making changes"`
	NoBackup           bool   `arg:"--no-backup" help:"Don't create backup files when updating"`
	Recursive          bool   `arg:"-r,--recursive" help:"Recurse into subfolders"`
	IgnoreVideos       bool   `arg:"--ignore-videos" help:"Skip video files"`
	ProbeVideo         bool   `arg:"--probe-video" help:"Probe MP4 containers for creation time"`
	Detailed           bool   `arg:"--detailed" help:"Show detailed file analysis"`
	NoDateTimeOriginal bool   `arg:"--no-datetime-original" help:"Don't update DateTimeOriginal field"`
	NoDateCreated      bool   `arg:"--no-date-created" help:"Don't update DateTime/DateCreated field"`
	Yes                bool   `arg:"-y,--yes" help:"Don't ask for confirmation before updating"`
	RestoreBackups     bool   `arg:"--restore-backups" help:"Restore all files from their backups and exit"`
	CleanupBackups     bool   `arg:"--cleanup-backups" help:"Delete all backup files and exit"`
	Verbose            bool   `arg:"-v,--verbose" help:"Enable verbose output"`
}

// config holds the application configuration
type config struct {
	Folder             string `yaml:"-"`
	ConfigFile         string `yaml:"-"`
	Update             bool   `yaml:"-"`
	DryRun             bool   `yaml:"dry_run"`
	Backup             bool   `yaml:"backup"`
	Recursive          bool   `yaml:"recursive"`
	IgnoreVideos       bool   `yaml:"ignore_videos"`
	ProbeVideo         bool   `yaml:"probe_video"`
	Detailed           bool   `yaml:"detailed"`
	UpdateDateOriginal bool   `yaml:"update_datetime_original"`
	UpdateDateCreated  bool   `yaml:"update_date_created"`
	Yes                bool   `yaml:"-"`
	Verbose            bool   `yaml:"verbose"`
}

// setDefaults initializes the config with default values
func setDefaults(cfg *config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %v", err)
	}

	cfg.ConfigFile = filepath.Join(homeDir, ".exifdaterc")
	cfg.Backup = true
	cfg.UpdateDateOriginal = true
	cfg.UpdateDateCreated = true
	return nil
}

// parseConfigFile reads and parses the YAML configuration file
func parseConfigFile(cfg *config) error {
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, just return without an error
			return nil
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	return nil
}

// validateConfig checks if the configuration is valid
func validateConfig(cfg *config) error {
	if cfg.Folder == "" {
		return fmt.Errorf("folder is not specified")
	}

	info, err := os.Stat(cfg.Folder)
	if os.IsNotExist(err) {
		return fmt.Errorf("folder does not exist: %s", cfg.Folder)
	}
	if err != nil {
		return fmt.Errorf("cannot access folder %s: %v", cfg.Folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", cfg.Folder)
	}

	if (cfg.Update || cfg.DryRun) && !cfg.UpdateDateOriginal && !cfg.UpdateDateCreated {
		return fmt.Errorf("at least one date field must be enabled for updates")
	}

	return nil
}

// wasFlagProvided checks if a CLI flag was explicitly provided
func wasFlagProvided(flagName string) bool {
	for _, a := range os.Args[1:] {
		if a == flagName || strings.HasPrefix(a, flagName+"=") {
			return true
		}
	}
	return false
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func run() error {
	// Create an instance of the config struct
	cfg := config{}

	// Set default values first
	if err := setDefaults(&cfg); err != nil {
		return fmt.Errorf("setting defaults: %w", err)
	}

	// Parse command-line arguments
	arg.MustParse(&args)

	// Apply config file path from command-line argument if provided
	if args.ConfigFile != "" {
		cfg.ConfigFile = args.ConfigFile
	}

	// Parse configuration file
	if err := parseConfigFile(&cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	// Override with command-line arguments
	cfg.Folder = args.Folder
	cfg.Update = args.Update
	cfg.Yes = args.Yes
	if wasFlagProvided("--dry-run") {
		cfg.DryRun = args.DryRun
	}
	if wasFlagProvided("--no-backup") {
		cfg.Backup = !args.NoBackup
	}
	if wasFlagProvided("-r") || wasFlagProvided("--recursive") {
		cfg.Recursive = args.Recursive
	}
	if wasFlagProvided("--ignore-videos") {
		cfg.IgnoreVideos = args.IgnoreVideos
	}
	if wasFlagProvided("--probe-video") {
		cfg.ProbeVideo = args.ProbeVideo
	}
	if wasFlagProvided("--detailed") {
		cfg.Detailed = args.Detailed
	}
	if wasFlagProvided("--no-datetime-original") {
		cfg.UpdateDateOriginal = !args.NoDateTimeOriginal
	}
	if wasFlagProvided("--no-date-created") {
		cfg.UpdateDateCreated = !args.NoDateCreated
	}
	if wasFlagProvided("-v") || wasFlagProvided("--verbose") {
		cfg.Verbose = args.Verbose
	}

	setupLogging(cfg.Verbose)

	// Validate the configuration
	if err := validateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Backup maintenance modes exit without analyzing.
	if args.RestoreBackups {
		restored := RestoreAllBackups(cfg.Folder)
		fmt.Printf("Restored %d files from backups.\n", restored)
		return nil
	}
	if args.CleanupBackups {
		removed := CleanupBackups(cfg.Folder)
		fmt.Printf("Removed %d backup files.\n", removed)
		return nil
	}

	return analyzeAndUpdate(cfg)
}

func analyzeAndUpdate(cfg config) error {
	fmt.Printf("Analyzing media files in: %s\n", cfg.Folder)

	analyzer := newAnalyzer(cfg.Recursive, cfg.IgnoreVideos, cfg.ProbeVideo)
	defer analyzer.close()

	if _, err := analyzer.AnalyzeFolder(cfg.Folder); err != nil {
		return fmt.Errorf("analyzing folder: %w", err)
	}

	printSummary(os.Stdout, analyzer.Stats)

	missing := analyzer.FilesWithMissingDates()
	if cfg.Detailed {
		printDetailed(os.Stdout, missing)
	}

	if !cfg.Update && !cfg.DryRun {
		if len(missing) > 0 {
			fmt.Printf("\nFound %d files with missing EXIF dates.\n", len(missing))
			fmt.Println("Use --update to update them or --detailed to see more information.")
		} else {
			fmt.Println("\nAll files have complete EXIF date information!")
		}
		return nil
	}

	withSuggestions := analyzer.FilesWithSuggestions()
	printUpdatePreview(os.Stdout, withSuggestions)
	if len(withSuggestions) == 0 {
		fmt.Println("No files have date suggestions for updating.")
		return nil
	}

	if cfg.DryRun {
		fmt.Println("\n[DRY RUN MODE] - No actual changes will be made")
	} else if !cfg.Yes && !confirmUpdate(os.Stdin, os.Stdout) {
		fmt.Println("Update cancelled.")
		return nil
	}

	updater := newUpdater(cfg.Backup, cfg.UpdateDateOriginal, cfg.UpdateDateCreated, cfg.DryRun)
	succeeded, failed := updater.UpdateBatch(withSuggestions)

	fmt.Printf("\nSuccessfully updated %d files, %d failed.\n", succeeded, failed)
	if succeeded > 0 && cfg.Backup && !cfg.DryRun {
		fmt.Println("Original files have been backed up with .backup extension.")
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
