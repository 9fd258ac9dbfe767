// Copyright 2026 Renovelt Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	catalog "github.com/renovelt/catalog"
	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/backfill"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/match"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	app := &cli.App{
		Name:  "catalogd",
		Usage: "Resolve free-text work descriptions against a canonical catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the local database directory",
				Value:   "./catalog_db",
				EnvVars: []string{"CATALOG_DB"},
			},
			&cli.StringFlag{
				Name:    "postgres",
				Usage:   "PostgreSQL DSN; when set the catalog is stored there instead of locally",
				EnvVars: []string{"CATALOG_POSTGRES_DSN"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"CATALOG_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"CATALOG_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "embedding-token",
				Usage:   "Embedding service API token",
				EnvVars: []string{"CATALOG_EMBEDDING_TOKEN"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve a work description to a catalog entry",
				ArgsUsage: "<text>",
				Action:    resolveCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "hard",
						Usage: "Score at or above which a single entry is matched automatically",
						Value: float64(match.DefaultHardThreshold),
					},
					&cli.Float64Flag{
						Name:  "soft",
						Usage: "Score at or above which candidates are offered for review",
						Value: float64(match.DefaultSoftThreshold),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates to return",
						Value: match.DefaultLimit,
					},
				},
			},
			{
				Name:      "detect",
				Usage:     "Detect catalog items inside multi-item condition text",
				ArgsUsage: "<text>",
				Action:    detectCommand,
			},
			{
				Name:      "add",
				Usage:     "Add a catalog entry and queue its embedding",
				ArgsUsage: "<name>",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "unit",
						Usage: "Unit of measure (each, sqft, lnft, ...)",
						Value: "each",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach; repeatable",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Bulk-import catalog entries from a JSON lines file",
				ArgsUsage: "<file>",
				Action:    importCommand,
			},
			{
				Name:   "backfill",
				Usage:  "Embed all catalog entries without a stored vector",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to embed in each provider call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "probe",
				Usage:  "Report the search capabilities of the configured storage",
				Action: probeCommand,
			},
			{
				Name:   "tags",
				Usage:  "List tag frequencies across the catalog",
				Action: tagsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "min-count",
						Usage: "Only show tags used at least this many times",
						Value: 1,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*catalog.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithToken(c.String("embedding-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []catalog.EngineOption{catalog.WithAIConfig(aiConfig)}
	if dsn := c.String("postgres"); dsn != "" {
		opts = append(opts, catalog.WithPostgres(dsn))
	}

	engine, err := catalog.NewEngine(c.Context, c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return engine, nil
}

func argumentText(c *cli.Context) (string, error) {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", fmt.Errorf("text argument is required")
	}
	return text, nil
}

func resolveCommand(c *cli.Context) error {
	text, err := argumentText(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.ResolveWithOptions(context.Background(), text, match.Options{
		Hard:  float32(c.Float64("hard")),
		Soft:  float32(c.Float64("soft")),
		Limit: c.Int("limit"),
	})
	if err != nil {
		return err
	}

	switch result.Kind {
	case core.KindMatch:
		fmt.Printf("match: entry %d\n", result.EntryId)
	case core.KindReview:
		fmt.Println("review: candidates need confirmation")
	case core.KindCreate:
		fmt.Printf("create: no existing entry; seed name %q unit %q\n",
			result.Seed.Name, result.Seed.Unit)
	}
	printCandidates(result.Candidates)
	return nil
}

func detectCommand(c *cli.Context) error {
	text, err := argumentText(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Detect(context.Background(), text)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d candidate entries\n", len(result.Candidates))
	printCandidates(result.Candidates)
	for _, fragment := range result.Unmatched {
		fmt.Printf("unmatched: %q\n", fragment)
	}
	return nil
}

func addCommand(c *cli.Context) error {
	name, err := argumentText(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	entry, err := engine.CreateEntry(context.Background(), name, c.String("unit"), c.StringSlice("tag")...)
	if err != nil {
		return err
	}

	fmt.Printf("added entry %d: %q (%s)\n", entry.Id, entry.Name, entry.Unit)
	return nil
}

// importRow is one line of an import file.
type importRow struct {
	Name string   `json:"name"`
	Unit string   `json:"unit"`
	Tags []string `json:"tags"`
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import file argument is required")
	}

	file, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	var entries []*core.CatalogEntry
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var row importRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, &core.CatalogEntry{
			Name: row.Name,
			Unit: row.Unit,
			Tags: row.Tags,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.ImportEntries(context.Background(), entries...)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d, skipped %d duplicates, %d failures\n",
		report.Imported, report.Skipped, len(report.Failures))
	for _, failure := range report.Failures {
		fmt.Printf("  failed %q: %s\n", failure.Name, failure.Reason)
	}
	if report.Imported > 0 {
		fmt.Println("run 'catalogd backfill' to embed the imported entries")
	}
	return nil
}

func backfillCommand(c *cli.Context) error {
	config := &backfill.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Backfill(context.Background(), config, os.Stderr); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}

func probeCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	caps := engine.Capabilities()
	fmt.Printf("text search:   %v\n", caps.TextSearch)
	fmt.Printf("vector search: %v\n", caps.VectorSearch)
	return nil
}

func tagsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	counts, err := engine.TagFrequencies(context.Background(), c.Int("min-count"))
	if err != nil {
		return err
	}

	for _, tag := range counts {
		fmt.Printf("%6d  %s\n", tag.Count, tag.Tag)
	}
	return nil
}

func printCandidates(candidates []core.MatchCandidate) {
	for i, candidate := range candidates {
		fmt.Printf("%d: '%s' (%d)[%0.3f] via %s\n",
			i, candidate.Name, candidate.EntryId, candidate.Score, candidate.Source)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
