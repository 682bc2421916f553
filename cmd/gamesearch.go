package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/comicsd/internal/deliver"
	"github.com/brogergvhs/comicsd/internal/games"
)

var (
	flagNoMenu        bool
	flagPageSize      int
	flagDetailWorkers int
)

func init() {
	gamesearchCmd := &cobra.Command{
		Use:   "gamesearch <query...>",
		Short: "Search Rawg.io for games",
		RunE:  runGamesearch,
	}

	gamesearchCmd.Flags().BoolVar(&flagNoMenu, "no-menu", false, "print every result instead of the interactive menu")
	gamesearchCmd.Flags().IntVar(&flagPageSize, "page-size", 0, "menu rows per page (default 5)")
	gamesearchCmd.Flags().IntVar(&flagDetailWorkers, "detail-workers", 0, "parallel detail lookups (default 1)")

	rootCmd.AddCommand(gamesearchCmd)
}

func runGamesearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	client := games.NewClient(games.ClientOptions{
		BaseURL:    a.cfg.RawgBaseURL,
		APIKey:     a.cfg.RawgAPIKey,
		HTTPClient: a.client,
	})

	// Progress bars only render for the first search; the manager is
	// closed before the menu takes the terminal.
	search := func(query string) ([]games.Summary, error) {
		searcher := games.NewSearcher(client, games.SearcherOptions{
			Cache:    a.searchCache,
			Workers:  a.cfg.DetailWorkers,
			Timeout:  a.cfg.Timeout,
			Logger:   a.log,
			Progress: a.progress,
		})

		var results []games.Summary
		err := guard(a.log, func() error {
			var serr error
			results, serr = searcher.Search(cmd.Context(), query)
			return serr
		})
		return results, err
	}

	results, err := search(strings.Join(args, " "))
	a.close()
	a.progress = nil

	if err != nil {
		a.out.Error(err, deliver.GameFallback)
		return errReported
	}

	if len(results) == 0 {
		a.out.Text("No results.")
		return nil
	}

	if flagNoMenu {
		printPages(cmd.OutOrStdout(), results)
		return nil
	}

	return browse(cmd.OutOrStdout(), a.out, results, a.cfg.PageSize, search)
}

func printPages(w io.Writer, results []games.Summary) {
	for i, s := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		_, _ = fmt.Fprint(w, s.Render(i+1, len(results)))
	}
}

func menuItems(results []games.Summary) []string {
	items := make([]string, 0, len(results)+2)
	for i, s := range results {
		released := "TBA"
		if s.Released != nil && *s.Released != "" {
			released = *s.Released
		}
		items = append(items, fmt.Sprintf("%d/%d  %s (%s)", i+1, len(results), s.Name, released))
	}

	return append(items, "New search", "Quit")
}

// browse lets the user page through the results, run another search or
// quit. Searches in one session share the process cache.
func browse(w io.Writer, out *deliver.Deliverer, results []games.Summary, pageSize int, search func(string) ([]games.Summary, error)) error {
	cursor := 0
	for {
		prompt := promptui.Select{
			Label:     "Select a game",
			Items:     menuItems(results),
			Size:      pageSize,
			CursorPos: cursor,
		}

		idx, _, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		switch idx {
		case len(results):
			query, err := (&promptui.Prompt{Label: "Search"}).Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("search prompt: %w", err)
			}

			next, err := search(query)
			switch {
			case err != nil:
				out.Error(err, deliver.GameFallback)
			case len(next) == 0:
				out.Text("No results.")
			default:
				results, cursor = next, 0
			}
			continue
		case len(results) + 1:
			return nil
		}

		cursor = idx
		_, _ = fmt.Fprint(w, "\n"+results[idx].Render(idx+1, len(results))+"\n")
	}
}
