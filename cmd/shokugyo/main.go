// Package main is the shokugyo CLI entry point.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyperjump/shokugyo/internal/audit"
	"github.com/hyperjump/shokugyo/internal/catalog"
	"github.com/hyperjump/shokugyo/internal/cli"
	"github.com/hyperjump/shokugyo/internal/config"
	"github.com/hyperjump/shokugyo/internal/i18n"
	"github.com/hyperjump/shokugyo/internal/metrics"
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/internal/search"
	"github.com/hyperjump/shokugyo/internal/server"
	"github.com/hyperjump/shokugyo/internal/storage"
	"github.com/hyperjump/shokugyo/internal/suggest"
	"github.com/hyperjump/shokugyo/internal/voice"
	"github.com/hyperjump/shokugyo/internal/watcher"
	"github.com/hyperjump/shokugyo/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shokugyo/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development), and falls back to built-in
// defaults when neither file exists. Returns the config and the path that was actually
// loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "audit":
		runAudit()
	case "catalog":
		runCatalog()
	case "languages":
		runLanguages()
	case "version", "--version", "-v":
		fmt.Printf("shokugyo version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (searches, catalog reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initializeComponents(ctx, cfg, logger, true)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Engine, components.Store, cfg, logger)

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		build := func(ctx context.Context) (*search.Engine, error) {
			return buildEngine(ctx, cfg, logger, components.Audit)
		}
		w := watcher.NewWatcher(cfg.Catalog.Path, func(string) {
			_ = srv.Reload(ctx, build)
		}, watcher.WithLogger(logger), watcher.WithDebounce(cfg.Catalog.Debounce()))
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start catalog watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	components.Engine = srv.Engine()
}

// printSearchUsage prints search subcommand usage and examples.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shokugyo search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Results are ranked by relevance; confidence is the score on a 0-100%% scale.
  • --division, --sector, --skill-level narrow the catalog before ranking.
  • --min-confidence drops weak matches (0-1).
  • --voice reads one transcript line from stdin instead of taking a query argument.

Examples:
  shokugyo search software developer
  shokugyo search "sewing machine"                 # same as unquoted
  shokugyo search --skill-level 2 --limit 3 worker
  echo "farm worker" | shokugyo search --voice --language hi
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if v, ok := strings.CutPrefix(a, "-config="); ok {
			return v
		}
	}
	return defaultPath
}

// searchDefaultsFromConfig loads config at path and returns the default result limit and
// language. On load failure, returns 10 and "en".
func searchDefaultsFromConfig(path string) (limit int, language string) {
	limit, language = 10, i18n.DefaultLanguage
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return limit, language
	}
	return cfg.Search.DefaultLimit, cfg.Search.DefaultLanguage
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "shokugyo search cook -limit 3"
// would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])
	configPath := searchConfigPathFromArgs(searchArgs, defaultConfigPath)
	defaultLimit, defaultLanguage := searchDefaultsFromConfig(configPath)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search the catalog directly)")
	limit := fs.Int("limit", defaultLimit, "number of results")
	division := fs.String("division", "", "only occupations in this division code")
	sector := fs.String("sector", "", "only occupations in this sector")
	skillLevel := fs.Int("skill-level", 0, "only occupations at this skill level (1-4)")
	minConfidence := fs.Float64("min-confidence", 0, "drop results below this confidence (0-1)")
	language := fs.String("language", defaultLanguage, "language code recorded with the search")
	useVoice := fs.Bool("voice", false, "read the query as a voice transcript from stdin")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:       buildSearchQuery(fs.Args()),
		Limit:       *limit,
		Language:    *language,
		InputMethod: models.InputText,
		Filters: models.Filters{
			Division:      *division,
			Sector:        *sector,
			SkillLevel:    *skillLevel,
			MinConfidence: *minConfidence,
		},
	}

	ctx := context.Background()
	if *useVoice {
		transcript, err := voice.NewReaderRecognizer(os.Stdin).Recognize(ctx, *language)
		if err != nil {
			fmt.Fprintln(os.Stderr, voice.Message(err))
			os.Exit(1)
		}
		if format == cli.OutputText {
			fmt.Printf("Heard (%s, %.0f%%): %s\n", transcript.Locale, transcript.Confidence*100, transcript.Text)
		}
		searchQuery.Query = transcript.Text
		searchQuery.InputMethod = models.InputVoice
	}
	if searchQuery.IsBlank() {
		printSearchUsage(fs)
		os.Exit(1)
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPathFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		components, err := initializeComponents(ctx, cfg, logger, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()

		response, err = components.Engine.Execute(ctx, searchQuery, cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid search: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if response.Error != nil && response.Error.Kind == models.KindRuntime {
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var response models.SearchResponse
	if err := json.Unmarshal(b, &response); err != nil || (response.Query == "" && response.Error == nil) {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return &response, nil
}

func runSuggest() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	partial := buildSearchQuery(fs.Args())
	if partial == "" {
		fmt.Println("Usage: shokugyo suggest [flags] <partial query>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	engine, err := buildEngine(context.Background(), cfg, zap.NewNop(), audit.NewLog())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	if err := cli.WriteSuggestions(os.Stdout, partial, engine.Suggest(partial), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAudit() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shokugyo audit <list|export|summary> [flags]")
		fmt.Println("  shokugyo audit list       List persisted audit entries")
		fmt.Println("  shokugyo audit export     Write persisted entries as JSON")
		fmt.Println("  shokugyo audit summary    Show aggregate counts")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	outFile := fs.String("file", "", "export destination (default: stdout)")
	_ = fs.Parse(os.Args[3:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	entries, err := loadAuditSnapshot(context.Background(), cfg.Audit.SnapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read audit log: %v\n", err)
		os.Exit(1)
	}

	switch sub {
	case "list":
		err = cli.WriteAuditEntries(os.Stdout, entries, format)
	case "export":
		err = exportAudit(entries, *outFile)
	case "summary":
		err = cli.WriteAuditSummary(os.Stdout, audit.Summarize(entries, time.Now()), format)
	default:
		fmt.Printf("Unknown audit subcommand: %s\n", sub)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit %s failed: %v\n", sub, err)
		os.Exit(1)
	}
}

// loadAuditSnapshot reads the persisted audit window at path.
func loadAuditSnapshot(ctx context.Context, path string) ([]models.AuditEntry, error) {
	store, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ctx)
}

func exportAudit(entries []models.AuditEntry, path string) error {
	data, err := audit.MarshalEntries(entries)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), path)
	return nil
}

func runCatalog() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shokugyo catalog <stats|export> [flags]")
		fmt.Println("  shokugyo catalog stats                   Show catalog statistics")
		fmt.Println("  shokugyo catalog export --file out.xlsx  Write the catalog as yaml, json, or xlsx")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format for stats: text, compact, or json")
	outFile := fs.String("file", "", "export destination; the extension picks the format")
	_ = fs.Parse(os.Args[3:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	switch sub {
	case "stats":
		format, err := cli.ParseOutputFormat(*outputFormat)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		engine, err := buildEngine(ctx, cfg, zap.NewNop(), audit.NewLog())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()
		if err := cli.WriteCatalogStats(os.Stdout, engine.Stats(), format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if *outFile == "" {
			fmt.Println("Usage: shokugyo catalog export --file <path.yaml|path.json|path.xlsx>")
			os.Exit(1)
		}
		n, err := exportCatalog(ctx, cfg.Catalog.Path, *outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d occupations to %s\n", n, *outFile)
	default:
		fmt.Printf("Unknown catalog subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// exportCatalog writes the catalog at src (embedded when empty) to dst.
func exportCatalog(ctx context.Context, src, dst string) (int, error) {
	occs, err := catalog.Open(src).Load(ctx)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, occs, filepath.Ext(dst)); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	return len(occs), nil
}

func runLanguages() {
	fs := flag.NewFlagSet("languages", flag.ExitOnError)
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := cli.WriteLanguages(os.Stdout, i18n.SupportedLanguages(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store  storage.SnapshotStore
	Audit  *audit.Log
	Engine *search.Engine
}

func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// initializeComponents opens the audit snapshot store, restores its window into a new
// audit log, and builds the engine. When persist is false or the store cannot be
// opened, the audit log stays in memory.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, persist bool) (*Components, error) {
	c := &Components{}
	opts := []audit.Option{audit.WithPersistLimit(cfg.Audit.PersistLimit)}
	if persist && cfg.Audit.SnapshotPath != "" {
		store, err := storage.Open(cfg.Audit.SnapshotPath)
		if err != nil {
			logger.Warn("audit persistence disabled", zap.String("path", cfg.Audit.SnapshotPath), zap.Error(err))
		} else {
			history, err := store.Load(ctx)
			if err != nil {
				logger.Warn("previous audit snapshot unreadable; starting empty", zap.Error(err))
			}
			c.Store = store
			opts = append(opts, audit.WithHistory(history), audit.WithSnapshotter(store))
		}
	}
	c.Audit = audit.NewLog(opts...)

	engine, err := buildEngine(ctx, cfg, logger, c.Audit)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Engine = engine
	return c, nil
}

// buildEngine loads the configured catalog into a new engine that records into log.
func buildEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger, log *audit.Log) (*search.Engine, error) {
	opts := []search.Option{
		search.WithLogger(logger),
		search.WithAuditLog(log),
		search.WithRecorder(metrics.SearchRecorder{}),
		search.WithSuggestOptions(
			suggest.WithLimit(cfg.Search.SuggestionLimit),
			suggest.WithCacheSize(cfg.Search.SuggestionCacheSize),
		),
	}
	if cfg.Search.DidYouMeanOrDefault() {
		opts = append(opts, search.WithDidYouMean())
	}
	ranking := cfg.Search.Ranking
	return search.Load(ctx, catalog.Open(cfg.Catalog.Path), &ranking, opts...)
}

func printUsage() {
	fmt.Println(`shokugyo - Occupation search over the National Classification of Occupations

Usage:
  shokugyo server [flags]                  Start the HTTP server
  shokugyo search [flags] <query>          Search occupations
  shokugyo suggest [flags] <partial>       Show live suggestions for a partial query
  shokugyo audit <list|export|summary>     Inspect the persisted audit log
  shokugyo catalog <stats|export>          Inspect or convert the catalog
  shokugyo languages                       List supported languages
  shokugyo version                         Show version
  shokugyo help                            Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shokugyo/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string          Config file path
  --server string          Server URL; empty searches the catalog directly (default: "")
  --limit int              Number of results (default from config, or 10)
  --division string        Division code filter
  --sector string          Sector filter
  --skill-level int        Skill level filter (1-4)
  --min-confidence float   Minimum confidence (0-1)
  --language string        Language recorded with the search (default from config, or en)
  --voice                  Read a voice transcript from stdin
  --output string          Output format: text, compact, or json (default: text)

Audit Flags:
  --config string    Config file path
  --output string    Output format: text, compact, or json
  --file string      Export destination (default: stdout)

Catalog Flags:
  --config string    Config file path
  --output string    Stats output format: text, compact, or json
  --file string      Export destination (.yaml, .json, or .xlsx)

Examples:
  shokugyo server
  shokugyo search software developer
  shokugyo search --output json "sewing machine"
  shokugyo search --server http://localhost:8080 cook
  shokugyo suggest mac
  shokugyo audit summary
  shokugyo audit export --file audit.json
  shokugyo catalog export --file nco.xlsx
  shokugyo languages --output json`)
}
