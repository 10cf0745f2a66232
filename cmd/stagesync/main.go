// Command stagesync imports performance events from CSV files or Coda tables
// into Google Calendar, and can export them to iCalendar files.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stagesync/internal/auth"
	"stagesync/internal/calendar"
	"stagesync/internal/config"
	"stagesync/internal/display"
	"stagesync/internal/event"
	"stagesync/internal/export"
	"stagesync/internal/logger"
	"stagesync/internal/source/coda"
	"stagesync/internal/source/csvfile"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `stagesync - performance event calendar sync

USAGE:
    %s <command> [options]

COMMANDS:
    import            Import events from a CSV file into Google Calendar
    coda-import       Import events from a Coda table into Google Calendar
    list-coda-tables  List the tables in a Coda doc
    list-calendars    List the Google calendars the account can access
    export            Write events from a CSV file or Coda table to an iCalendar file
    auth              Run the OAuth flow and cache a token

Run '%s <command> -h' for command options.

CONFIGURATION PRECEDENCE (highest to lowest):
    1. Command-line flags
    2. Environment variables
    3. Config file (-config)
    4. Defaults

ENVIRONMENT VARIABLES:
    GOOGLE_CREDENTIALS_PATH           Google OAuth credentials JSON file
    GOOGLE_TOKEN_CACHE_PATH           OAuth token cache file
    STAGESYNC_TIMEZONE                IANA zone for timed events
    STAGESYNC_EVENT_DURATION_MINUTES  Default duration for open-ended events
    CODA_API_TOKEN                    Coda API token (coda-import commands)
    STAGESYNC_LOG_LEVEL               debug, info, warn or error
    STAGESYNC_LOG_FORMAT              console or json

Variables can also be placed in a .env file in the working directory.
`, os.Args[0], os.Args[0])
}

// syncFlags holds the options shared by the import and coda-import commands.
type syncFlags struct {
	calendarID string
	startDate  string
	endDate    string
	purchased  bool
	dryRun     bool
	stats      bool
	delete     bool
}

func registerSyncFlags(fs *flag.FlagSet, sf *syncFlags) {
	fs.StringVar(&sf.calendarID, "calendar-id", "", "Target calendar ID (default: primary)")
	fs.StringVar(&sf.startDate, "start-date", "", "Only include events on or after this date (YYYY-MM-DD)")
	fs.StringVar(&sf.endDate, "end-date", "", "Only include events on or before this date (YYYY-MM-DD)")
	fs.BoolVar(&sf.purchased, "purchased", false, "Only include purchased events")
	fs.BoolVar(&sf.dryRun, "dry-run", false, "Show what would happen without touching the calendar")
	fs.BoolVar(&sf.stats, "stats", false, "Print event statistics")
	fs.BoolVar(&sf.delete, "delete", false, "Delete matching calendar events instead of creating them")
}

func main() {
	// A .env file is optional; missing is not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	log, err := logger.New(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch cmd {
	case "import":
		err = runImport(args, log)
	case "coda-import":
		err = runCodaImport(args, log)
	case "list-coda-tables":
		err = runListCodaTables(args, log)
	case "list-calendars":
		err = runListCalendars(args, log)
	case "export":
		err = runExport(args, log)
	case "auth":
		err = runAuth(args, log)
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// parseDateBound parses an optional YYYY-MM-DD filter bound. An empty value
// means the bound is not set.
func parseDateBound(name, raw string) (*event.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := event.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, raw)
	}
	return &d, nil
}

func runImport(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	file := fs.String("file", "", "CSV file to import (required)")
	var sf syncFlags
	registerSyncFlags(fs, &sf)
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	events, err := csvfile.Parse(*file, cfg.EventDuration(), log)
	if err != nil {
		return err
	}

	return syncEvents(cfg, &sf, events, log)
}

func runCodaImport(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("coda-import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	docID := fs.String("doc", "", "Coda doc ID")
	tableID := fs.String("table", "", "Coda table ID or name")
	var sf syncFlags
	registerSyncFlags(fs, &sf)
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *docID == "" {
		*docID = cfg.CodaDocID
	}
	if *tableID == "" {
		*tableID = cfg.CodaTableID
	}
	if *docID == "" || *tableID == "" {
		return fmt.Errorf("coda doc and table must be set via -doc/-table flags or the config file")
	}

	token, err := cfg.RequireCodaToken()
	if err != nil {
		return err
	}

	client := coda.NewClient(token, cfg.EventDuration(), log)
	events, err := client.FetchEvents(context.Background(), *docID, *tableID)
	if err != nil {
		return err
	}

	return syncEvents(cfg, &sf, events, log)
}

// syncEvents filters and displays the loaded events, then creates or deletes
// calendar entries depending on the flags.
func syncEvents(cfg *config.Config, sf *syncFlags, events []event.Event, log *zap.Logger) error {
	startBound, err := parseDateBound("start date", sf.startDate)
	if err != nil {
		return err
	}
	endBound, err := parseDateBound("end date", sf.endDate)
	if err != nil {
		return err
	}

	events = event.Filter(events, startBound, endBound, sf.purchased)
	display.PrintEvents(os.Stdout, events)
	if sf.stats {
		display.PrintStats(os.Stdout, events)
	}
	if len(events) == 0 {
		fmt.Println("\nNo events to process.")
		return nil
	}

	calendarID := sf.calendarID
	if calendarID == "" {
		calendarID = cfg.CalendarID
	}

	if sf.dryRun {
		action := "imported"
		if sf.delete {
			action = "checked for deletion"
		}
		fmt.Printf("\nDry run: %d events would be %s in calendar %q.\n", len(events), action, calendarID)
		return nil
	}

	zone, err := cfg.Location()
	if err != nil {
		return err
	}

	client, err := authenticatedCalendarClient(cfg)
	if err != nil {
		return err
	}

	matches, err := calendar.FindMatches(client, calendarID, events, log)
	if err != nil {
		return err
	}

	if sf.delete {
		return deleteMatches(client, calendarID, matches, log)
	}
	return createUnmatched(client, calendarID, events, matches, zone, log)
}

func deleteMatches(client calendar.CalendarClient, calendarID string, matches []calendar.Match, log *zap.Logger) error {
	if len(matches) == 0 {
		fmt.Println("\nNo matching calendar events found to delete.")
		return nil
	}

	display.PrintDeletePreview(os.Stdout, matches)
	fmt.Print("\nType 'yes' to confirm deletion: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Remote.ID)
	}
	deleted, err := calendar.DeleteEvents(client, calendarID, ids, log)
	fmt.Printf("Deleted %d events.\n", deleted)
	return err
}

// createUnmatched inserts the events that do not already exist in the
// calendar. Existing events are identified by case-insensitive title plus
// start date.
func createUnmatched(client calendar.CalendarClient, calendarID string, events []event.Event, matches []calendar.Match, zone *time.Location, log *zap.Logger) error {
	existing := make(map[string]bool, len(matches))
	for _, m := range matches {
		existing[matchKey(m.Local.Title, m.Local.StartDate)] = true
	}

	var toCreate []event.Event
	for _, e := range events {
		if existing[matchKey(e.Title, e.StartDate)] {
			log.Info("skipping event that already exists",
				zap.String("title", e.Title),
				zap.String("date", e.StartDate.String()))
			continue
		}
		toCreate = append(toCreate, e)
	}

	if len(toCreate) == 0 {
		fmt.Println("\nAll events already exist in the calendar.")
		return nil
	}
	if err := calendar.CreateEvents(client, calendarID, toCreate, zone, log); err != nil {
		return err
	}
	fmt.Printf("Created %d events (%d already existed).\n", len(toCreate), len(events)-len(toCreate))
	return nil
}

func matchKey(title string, date event.Date) string {
	return strings.ToLower(title) + "|" + date.String()
}

func runListCodaTables(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("list-coda-tables", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	docID := fs.String("doc", "", "Coda doc ID")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *docID == "" {
		*docID = cfg.CodaDocID
	}
	if *docID == "" {
		return fmt.Errorf("coda doc must be set via the -doc flag or the config file")
	}

	token, err := cfg.RequireCodaToken()
	if err != nil {
		return err
	}

	client := coda.NewClient(token, cfg.EventDuration(), log)
	tables, err := client.ListTables(context.Background(), *docID)
	if err != nil {
		return err
	}

	fmt.Printf("Tables in doc %s:\n", *docID)
	for _, t := range tables {
		fmt.Printf("  %-20s %-30s %s\n", t.ID, t.Name, t.TableType)
	}
	return nil
}

func runListCalendars(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("list-calendars", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	client, err := authenticatedCalendarClient(cfg)
	if err != nil {
		return err
	}

	entries, err := client.ListCalendars()
	if err != nil {
		return err
	}

	fmt.Println("Available calendars:")
	for _, entry := range entries {
		marker := " "
		if entry.Primary {
			marker = "*"
		}
		fmt.Printf("  %s %-50s %s\n", marker, entry.Id, entry.Summary)
	}
	return nil
}

func runExport(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	file := fs.String("file", "", "CSV file to export")
	docID := fs.String("doc", "", "Coda doc ID to export from instead of a CSV file")
	tableID := fs.String("table", "", "Coda table ID or name")
	out := fs.String("out", "events.ics", "Output iCalendar file")
	var sf syncFlags
	registerSyncFlags(fs, &sf)
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	var events []event.Event
	switch {
	case *file != "":
		events, err = csvfile.Parse(*file, cfg.EventDuration(), log)
	case *docID != "" && *tableID != "":
		var token string
		token, err = cfg.RequireCodaToken()
		if err != nil {
			return err
		}
		client := coda.NewClient(token, cfg.EventDuration(), log)
		events, err = client.FetchEvents(context.Background(), *docID, *tableID)
	default:
		return fmt.Errorf("either -file or -doc and -table are required")
	}
	if err != nil {
		return err
	}

	startBound, err := parseDateBound("start date", sf.startDate)
	if err != nil {
		return err
	}
	endBound, err := parseDateBound("end date", sf.endDate)
	if err != nil {
		return err
	}
	events = event.Filter(events, startBound, endBound, sf.purchased)
	if sf.stats {
		display.PrintStats(os.Stdout, events)
	}

	zone, err := cfg.Location()
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.WriteICS(f, events, zone); err != nil {
		return err
	}
	fmt.Printf("Wrote %d events to %s\n", len(events), *out)
	return nil
}

func runAuth(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	if _, err := authenticatedCalendarClient(cfg); err != nil {
		return err
	}
	fmt.Println("Authentication successful. Token cached.")
	return nil
}

func authenticatedCalendarClient(cfg *config.Config) (*calendar.Client, error) {
	ctx := context.Background()

	oauthConfig, err := auth.NewOAuthConfig(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	tokenStore := auth.NewFileTokenStore(cfg.TokenCachePath)
	httpClient, err := auth.GetAuthenticatedClient(ctx, oauthConfig, tokenStore, os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return calendar.NewClient(ctx, httpClient)
}
