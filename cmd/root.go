package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/comicsd/internal/util"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool

	flagOutput    string
	flagTimeout   time.Duration
	flagUserAgent string
	flagProgress  bool
)

// errReported means the user already got a message; only the exit code
// is left to set.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:           "comicsd",
	Short:         "Fetch comic strips and search for games from the terminal",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")

	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "folder the comic images are saved to")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per request timeout (default 30s)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	rootCmd.PersistentFlags().BoolVar(&flagProgress, "progress", false, "show progress bars")
}

func Execute() {
	ctx, stop := util.SignalContext(context.Background())
	defer stop()
	defer resetSearchCache()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	resetSearchCache()
	os.Exit(1)
}
