package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/emiller/permitwatch/internal/checker"
	"github.com/emiller/permitwatch/internal/config"
	"github.com/emiller/permitwatch/internal/platform/sqlite"
	"github.com/emiller/permitwatch/internal/recreation"
	"github.com/emiller/permitwatch/internal/repository/permitinfo"
	"github.com/emiller/permitwatch/pkg/dateutil"
)

// Exit codes: 0 availability found, 1 none found (or run failed),
// 2 usage error.
func main() {
	os.Exit(run())
}

type cliArgs struct {
	start, end time.Time
	permits    []int
	opts       checker.Options
	debug      bool
	noCache    bool
}

func run() int {
	// No .env is the normal case; config falls back to the environment.
	_ = godotenv.Load()

	args, err := parseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, "permitwatch:", err)
		pflag.Usage()
		return 2
	}

	level := slog.LevelInfo
	if args.debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	cfg := config.Load()

	client := recreation.New(
		recreation.WithBaseURL(cfg.APIBaseURL),
		recreation.WithClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	var cache checker.MetadataCache
	if cfg.CachePath != "" && !args.noCache {
		db, err := sqlite.Open(cfg.CachePath)
		if err != nil {
			logger.Warn("metadata cache disabled", "path", cfg.CachePath, "error", err)
		} else {
			defer func() { _ = db.Close() }()
			cache = permitinfo.NewRepository(db.DB, cfg.CacheTTL)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chk := checker.New(client, cache, logger, cfg.Workers)

	output, hasAvailabilities, err := chk.Run(ctx, args.permits, args.opts)
	if err != nil {
		logger.Error("availability check failed", "error", err)
		return 1
	}

	fmt.Println(output)

	if !hasAvailabilities {
		return 1
	}
	return 0
}

func parseArgs() (*cliArgs, error) {
	var (
		debug           = pflag.BoolP("debug", "d", false, "Debug log level")
		startStr        = pflag.String("start-date", "", "Start date [YYYY-MM-DD]")
		endStr          = pflag.String("end-date", "", "End date [YYYY-MM-DD]")
		minPermits      = pflag.Int("min-permits", 1, "Minimum number of remaining permits to consider a date available. Useful if your group needs multiple permits on the same launch date.")
		jsonOutput      = pflag.Bool("json-output", false, "Output JSON instead of human readable output")
		weekendsOnly    = pflag.Bool("weekends-only", false, "Include only weekends (i.e. Friday or Saturday launch dates)")
		includeHolidays = pflag.Bool("include-holidays", false, "With --weekends-only, also include US federal holidays and their eves")
		permits         = pflag.IntSlice("permits", nil, "Permit ID(s) from recreation.gov")
		stdinIDs        = pflag.Bool("stdin", false, "Read list of permit ID(s) from stdin instead, one per line")
		noCache         = pflag.Bool("no-cache", false, "Skip the permit metadata cache even when configured")
	)
	pflag.Parse()

	args := &cliArgs{debug: *debug, noCache: *noCache}

	var err error
	if args.start, err = dateutil.ParseInput(*startStr); err != nil {
		return nil, fmt.Errorf("not a valid start date: %q", *startStr)
	}
	if args.end, err = dateutil.ParseInput(*endStr); err != nil {
		return nil, fmt.Errorf("not a valid end date: %q", *endStr)
	}
	if *minPermits <= 0 {
		return nil, fmt.Errorf("not a valid positive integer for --min-permits: %d", *minPermits)
	}

	switch {
	case len(*permits) > 0 && *stdinIDs:
		return nil, fmt.Errorf("--permits and --stdin are mutually exclusive")
	case len(*permits) > 0:
		args.permits = *permits
	case *stdinIDs:
		if args.permits, err = readPermitIDs(os.Stdin); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of --permits or --stdin is required")
	}

	args.opts = checker.Options{
		StartDate:       args.start,
		EndDate:         args.end,
		WeekendsOnly:    *weekendsOnly,
		IncludeHolidays: *includeHolidays,
		MinRemaining:    *minPermits,
		JSONOutput:      *jsonOutput,
	}
	return args, nil
}

func readPermitIDs(r *os.File) ([]int, error) {
	var ids []int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("not a valid permit id: %q", line)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read permit ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no permit ids on stdin")
	}
	return ids, nil
}
