package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/ayusman/handscan/internal/app"
	"github.com/ayusman/handscan/internal/config"
	"github.com/ayusman/handscan/internal/detector"
	"github.com/ayusman/handscan/internal/logging"
	"github.com/ayusman/handscan/internal/source"
	"github.com/ayusman/handscan/internal/store"
)

// runAction loads the cascade, enumerates path in the given mode and runs the
// benchmark. Any error returned before processing starts is a setup error.
func runAction(c *cli.Context, cfg *config.Config, mode source.Mode, path string) (err error) {
	logger, err := logging.New("handscan", c.Bool(flagDebug))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	listing, err := source.List(mode, path)
	if err != nil {
		return err
	}

	det, err := detector.NewCascadeDetector(c.Path(flagCascade))
	if err != nil {
		return err
	}

	var st *store.Store
	if !c.Bool(flagNoHistory) {
		st, err = store.New(c.Path(flagDB))
		if err != nil {
			return multierr.Append(fmt.Errorf("open history: %w", err), det.Close())
		}
		defer func() {
			err = multierr.Append(err, st.Close())
		}()
	}

	runCfg := *cfg
	runCfg.OutputDir = c.Path(flagOut)
	runCfg.CSVPath = c.Path(flagCSV)

	a := app.New(app.Config{
		OutputDir: runCfg.OutputDir,
		CSVPath:   runCfg.ResolvedCSVPath(),
		Cascade:   det.Path(),
		Thickness: c.Int(flagThickness),
		Store:     st,
		Logger:    logger,
	}, det)
	defer func() {
		err = multierr.Append(err, a.Close())
	}()

	logger.Debugw("starting run", "mode", mode, "input", path, "images", len(listing.Items))

	summary, err := a.Run(listing)
	if err != nil {
		return err
	}

	printSummary(c.App.Writer, summary)
	return nil
}

func printSummary(w io.Writer, s *app.Summary) {
	fmt.Fprintf(w, "processed %d images (%d skipped), avg detect %.2f ms\n",
		s.Processed, s.Skipped, float64(s.AverageDetect().Nanoseconds())/1e6)
	fmt.Fprintf(w, "output: %s\ncsv: %s\n", s.OutputDir, s.CSVPath)
	if s.RunID != "" {
		fmt.Fprintf(w, "run: %s\n", s.RunID)
	}
}

func openHistory(c *cli.Context) (*store.Store, error) {
	st, err := store.New(c.Path(flagDB))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return st, nil
}

func historyAction(c *cli.Context) (err error) {
	st, err := openHistory(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	runs, err := st.Runs().List(c.Int(flagLimit))
	if err != nil {
		return err
	}

	printRuns(c.App.Writer, runs, time.Now())
	return nil
}

func printRuns(w io.Writer, runs []*store.Run, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}

	for _, r := range runs {
		status := "unfinished"
		if r.Finished() {
			status = fmt.Sprintf("%d processed, %d skipped", r.Processed, r.Skipped)
		}
		fmt.Fprintf(w, "%s  %-5s %s  %s  (%s)\n",
			r.ID, r.Mode, humanize.RelTime(r.StartedAt, now, "ago", "from now"), r.Input, status)
	}
}

func historyShowAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return cli.Exit("history show requires exactly one RUN_ID argument", 1)
	}

	st, err := openHistory(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	id := c.Args().First()
	run, err := st.Runs().GetByID(id)
	if err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}

	results, err := st.Results().ListByRun(id)
	if err != nil {
		return err
	}

	printResults(c.App.Writer, run, results)
	return nil
}

func historyDeleteAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return cli.Exit("history delete requires exactly one RUN_ID argument", 1)
	}

	st, err := openHistory(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	id := c.Args().First()
	n, err := st.Results().CountByRun(id)
	if err != nil {
		return err
	}
	if err := st.Runs().Delete(id); err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}

	fmt.Fprintf(c.App.Writer, "deleted run %s (%d results)\n", id, n)
	return nil
}

func printResults(w io.Writer, run *store.Run, results []store.Result) {
	fmt.Fprintf(w, "run %s (%s %s)\n", run.ID, run.Mode, run.Input)
	fmt.Fprintf(w, "cascade: %s\ncsv: %s\n", run.Cascade, run.CSVPath)

	withType := run.Mode == string(source.ModeTree)
	for _, res := range results {
		fields := []string{res.File}
		if withType {
			fields = append(fields, res.Type)
		}
		fields = append(fields,
			fmt.Sprintf("hands=%d", res.DetectedCount),
			fmt.Sprintf("%.2fms", float64(res.TimeNs)/1e6),
			fmt.Sprintf("first=(%d,%d %dx%d)", res.FirstX, res.FirstY, res.FirstW, res.FirstH),
		)
		fmt.Fprintln(w, strings.Join(fields, "  "))
	}
}
