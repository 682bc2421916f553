package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/comicsd/internal/comics"
	"github.com/brogergvhs/comicsd/internal/deliver"
	"github.com/brogergvhs/comicsd/internal/downloader"
	"github.com/brogergvhs/comicsd/internal/util"
)

func init() {
	// Names and aliases never change with config, so the built-in catalog
	// is enough to register the commands.
	catalog, err := comics.NewCatalog(comics.CatalogOptions{})
	if err != nil {
		panic(err)
	}

	for _, r := range catalog.Rules() {
		rootCmd.AddCommand(comicCommand(r))
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "comics",
		Short: "List the comic sources and the dates they accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listComics(cmd, catalog)
		},
	})
}

func comicCommand(r comics.Rule) *cobra.Command {
	use := r.ID
	long := r.Title + "\n\n" + r.Homepage
	switch {
	case r.DateRequired:
		use += " <date>"
		long += fmt.Sprintf("\n\nA date is required, between %s. Example: %s", r.RangeText(), r.Example)
	case r.Dated():
		use += " [date]"
		long += fmt.Sprintf("\n\nWithout a date a random day between %s is picked. Example: %s", r.RangeText(), r.Example)
	case r.RandomOnly:
		long += "\n\nOnly random comics are available."
	}

	return &cobra.Command{
		Use:     use,
		Aliases: r.Aliases,
		Short:   r.Title,
		Long:    long,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComic(cmd, r.ID, args)
		},
	}
}

func runComic(cmd *cobra.Command, id string, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	catOpts, err := a.cfg.CatalogOptions()
	if err != nil {
		return err
	}
	catalog, err := comics.NewCatalog(catOpts)
	if err != nil {
		return err
	}
	rule, _ := catalog.Lookup(id)

	pipe := comics.NewPipeline(downloader.New(a.client, a.cfg.Timeout), comics.PipelineOptions{
		Logger:   a.log,
		Progress: a.progress,
	})

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}

	ctx := cmd.Context()

	var res *comics.Result
	err = guard(a.log, func() error {
		var ferr error
		res, ferr = pipe.Fetch(ctx, rule, raw)
		return ferr
	})
	a.close()

	if err != nil {
		if ctx.Err() != nil {
			a.log.Infof("Interrupted, cleaning up %s\n", a.cfg.Output)
			util.CleanupPartialFiles(a.cfg.Output, cmd.ErrOrStderr())
			util.RemoveIfEmpty(a.cfg.Output, cmd.ErrOrStderr())
		}
		a.out.Error(err, deliver.ComicFallback)
		return errReported
	}

	if _, err := a.out.Comic(res); err != nil {
		return fmt.Errorf("save %s: %w", res.Filename, err)
	}

	return nil
}

func listComics(cmd *cobra.Command, catalog *comics.Catalog) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMMAND\tALIASES\tDATES\tTITLE")

	for _, r := range catalog.Rules() {
		aliases := "-"
		if len(r.Aliases) > 0 {
			aliases = fmt.Sprint(r.Aliases)
		}

		span := "random only"
		switch {
		case r.DateRequired:
			span = r.RangeText() + " (required)"
		case r.Dated():
			span = r.RangeText()
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, aliases, span, r.Title)
	}

	return w.Flush()
}
