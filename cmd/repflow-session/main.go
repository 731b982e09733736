package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/repflow/internal/catalog"
	"github.com/claude/repflow/internal/shell"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepFlow server URL (e.g. https://repflow.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("REPFLOW_API_KEY"), "API key for log persistence")
	cacheDir := flag.String("cache-dir", "", "workout cache directory (default ~/.repflow-session)")
	userID := flag.Int("user", 1, "user id to record logs under")
	planID := flag.String("plan", "", "run the workouts of a plan instead of listing ids")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repflow-session", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ids := flag.Args()
	if len(ids) == 0 && *planID == "" {
		fmt.Fprintf(os.Stderr, "Usage: repflow-session -server <URL> [-plan <id>] [workout ids...]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -server is required\n")
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	ctx := context.Background()
	client := catalog.NewClient(*serverURL, *apiKey)

	if *planID != "" {
		planIDs, err := client.GetPlanWorkoutIDs(ctx, *planID)
		if err != nil {
			log.Error("plan lookup failed", "plan", *planID, "error", err)
			os.Exit(1)
		}
		ids = append(planIDs, ids...)
	}

	// Open the workout cache; fall back to uncached fetches if unavailable.
	dir := *cacheDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".repflow-session")
		}
	}
	var cache *catalog.Cache
	if dir != "" {
		var err error
		cache, err = catalog.OpenCache(dir)
		if err != nil {
			log.Warn("cache unavailable, fetching uncached", "dir", dir, "error", err)
		} else {
			defer cache.Close()
		}
	}

	resolver := catalog.NewResolver(cache, client, log)
	refs := resolver.Resolve(ctx, ids)
	if len(refs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: none of the requested workouts could be resolved\n")
		os.Exit(1)
	}

	sh := shell.New(os.Stdin, os.Stdout, client, *userID, log)
	if _, err := sh.Run(ctx, refs); err != nil {
		log.Error("session failed", "error", err)
		os.Exit(1)
	}
}
