// Package main is the handscan command line tool.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/handscan/internal/config"
	"github.com/ayusman/handscan/internal/source"
)

const (
	// Global flags.
	flagCascade   = "cascade"
	flagOut       = "out"
	flagCSV       = "csv"
	flagDB        = "db"
	flagNoHistory = "no-history"
	flagThickness = "thickness"
	flagDebug     = "debug"

	// History flags.
	flagLimit = "limit"
)

func main() {
	if err := newApp(config.Load()).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI with flag defaults taken from cfg.
func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "handscan",
		Usage: "benchmark Haar cascade hand detection over images",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  flagCascade,
				Value: cfg.CascadePath,
				Usage: "cascade classifier `FILE`",
			},
			&cli.PathFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Value:   cfg.OutputDir,
				Usage:   "directory for annotated images",
			},
			&cli.PathFlag{
				Name:  flagCSV,
				Value: cfg.CSVPath,
				Usage: "results CSV (default <out>/" + config.CSVName + ")",
			},
			&cli.PathFlag{
				Name:  flagDB,
				Value: cfg.DBPath,
				Usage: "run history database",
			},
			&cli.BoolFlag{
				Name:  flagNoHistory,
				Value: !cfg.History,
				Usage: "do not record the run in the history database",
			},
			&cli.IntFlag{
				Name:  flagThickness,
				Value: cfg.Thickness,
				Usage: "rectangle thickness, 0 picks 10 for single images and 2 otherwise",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Value: cfg.Debug,
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "image",
				Usage:     "detect hands in a single image",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("image requires exactly one PATH argument", 1)
					}
					return runAction(c, cfg, source.ModeImage, c.Args().First())
				},
			},
			{
				Name:      "dir",
				Usage:     "detect hands in every image of a directory",
				ArgsUsage: "[DIR]",
				Action: func(c *cli.Context) error {
					return runAction(c, cfg, source.ModeDir, argOr(c, cfg.InputPath))
				},
			},
			{
				Name:      "tree",
				Usage:     "detect hands in a directory tree, labeling images by parent directory",
				ArgsUsage: "[ROOT]",
				Action: func(c *cli.Context) error {
					return runAction(c, cfg, source.ModeTree, argOr(c, cfg.InputPath))
				},
			},
			{
				Name:            "history",
				Usage:           "list recorded runs",
				HideHelpCommand: true,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagLimit,
						Value: 10,
						Usage: "number of runs to list, 0 for all",
					},
				},
				Action: historyAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "print the results of a run",
						ArgsUsage: "RUN_ID",
						Action:    historyShowAction,
					},
					{
						Name:      "delete",
						Usage:     "remove a run and its results",
						ArgsUsage: "RUN_ID",
						Action:    historyDeleteAction,
					},
				},
			},
		},
	}
}

func argOr(c *cli.Context, fallback string) string {
	if c.NArg() > 0 {
		return c.Args().First()
	}
	return fallback
}
