package cmd

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/comicsd/internal/config"
	"github.com/brogergvhs/comicsd/internal/deliver"
	"github.com/brogergvhs/comicsd/internal/failure"
	"github.com/brogergvhs/comicsd/internal/games"
	"github.com/brogergvhs/comicsd/internal/ui"
	"github.com/brogergvhs/comicsd/internal/util"
)

// app is what every command needs once flags and config are merged.
type app struct {
	cfg      *config.Config
	log      *ui.Logger
	client   *http.Client
	out      *deliver.Deliverer
	progress *ui.MPBProgressManager

	searchCache *games.Cache

	closeOnce sync.Once
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, used, err := config.LoadMerged(config.Options{
		IgnoreConfig:  flagIgnoreConfig,
		Debug:         flagDebug,
		Output:        flagOutput,
		Timeout:       flagTimeout,
		UserAgent:     flagUserAgent,
		Progress:      flagProgress,
		DetailWorkers: flagDetailWorkers,
		PageSize:      flagPageSize,
	})
	if err != nil {
		return nil, err
	}

	logSvc := ui.NewLoggerTo(cmd.ErrOrStderr(), cfg.Debug)
	logSvc.Debugf("Config file: %s\n", used)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          cfg.Timeout,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    logSvc,
		client: client,
		out:    deliver.New(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr(), logSvc, deliver.ResolveColors(cfg.Colors)),

		searchCache: processSearchCache(cfg.CacheTTL),
	}
	if cfg.Progress {
		a.progress = ui.NewProgressManager(cmd.ErrOrStderr())
	}

	return a, nil
}

// The game search cache lives as long as the process. The first command
// that needs it fixes its TTL.
var (
	searchCacheMu sync.Mutex
	searchCache   *games.Cache
)

func processSearchCache(ttl time.Duration) *games.Cache {
	searchCacheMu.Lock()
	defer searchCacheMu.Unlock()

	if searchCache == nil {
		searchCache = games.NewCache(0, ttl)
	}
	return searchCache
}

func resetSearchCache() {
	searchCacheMu.Lock()
	searchCache = nil
	searchCacheMu.Unlock()
}

// close waits for progress bars to finish rendering.
func (a *app) close() {
	a.closeOnce.Do(func() {
		if a.progress != nil {
			a.progress.Close()
		}
	})
}

// guard runs fn and turns a panic into an upstream failure.
func guard(log *ui.Logger, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic: %v\n%s\n", r, debug.Stack())
			err = failure.Upstream("panic", fmt.Errorf("%v", r))
		}
	}()

	return fn()
}
