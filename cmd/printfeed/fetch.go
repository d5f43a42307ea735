package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/printfeed/printfeed/archive"
	"github.com/printfeed/printfeed/config"
	"github.com/printfeed/printfeed/recipe"
	"github.com/printfeed/printfeed/session"
)

func handleFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default ~/.printfeed/config.yaml)")
	username := fs.String("username", getEnv("PRINTFEED_USERNAME", ""), "subscriber username")
	password := fs.String("password", getEnv("PRINTFEED_PASSWORD", ""), "subscriber password")
	maxSections := fs.Int("max-sections", 0, "limit number of sections (0 = unlimited)")
	maxArticles := fs.Int("max-articles", 0, "limit articles per section (0 = unlimited)")
	archivePath := fs.String("archive", getEnv("PRINTFEED_ARCHIVE", ""), "archive the edition to this database")
	outPath := fs.String("o", "", "write edition JSON to this file (default stdout)")
	fs.Parse(args)

	fileCfg, err := loadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := recipe.DefaultConfig()

	if fileCfg != nil {
		cfg.Limits.MaxSections = fileCfg.MaxSections
		cfg.Limits.MaxArticlesPerSection = fileCfg.MaxArticlesPerSection
		if fileCfg.Credentials != nil {
			cfg.Auth = session.Credentials{
				Username: fileCfg.Credentials.Username,
				Password: fileCfg.Credentials.Password,
			}
		}
		if *archivePath == "" {
			*archivePath = fileCfg.ArchivePath
		}
	}

	// Flags win over the config file.
	if *username != "" && *password != "" {
		cfg.Auth = session.Credentials{Username: *username, Password: *password}
	}
	if *maxSections > 0 {
		cfg.Limits.MaxSections = *maxSections
	}
	if *maxArticles > 0 {
		cfg.Limits.MaxArticlesPerSection = *maxArticles
	}

	result, err := cfg.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: fetch failed: %v\n", err)
		os.Exit(1)
	}

	if *archivePath != "" {
		store, err := archive.Open(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		editionID, err := store.SaveResult(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to archive edition: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Archived edition %s (%d articles)\n", editionID, result.ArticleCount())
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal edition: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	os.Stdout.Write(data)
}

func loadFileConfig(path string) (*config.FileConfig, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
