// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, csv, markdown, json)",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Style text output and indent JSON",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of stdout",
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the watchlist, bookshelf and image proxy API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides [server].host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides [server].port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the health check in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// lookupCommand fetches cards by id
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Fetch catalog entries by id",
		ArgsUsage: "<movie|game|board|book> <ids...>",
		Flags:     formatFlags(),
		Action:    r.Lookup,
	}
}

// searchCommand runs a free-text catalog search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a catalog",
		ArgsUsage: "<query>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Catalog to search (movie, game, board, book)",
				Value:   "movie",
			},
		}, formatFlags()...),
		Action: r.Search,
	}
}

// bestsellersCommand prints a NYT bestseller list
func bestsellersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bestsellers",
		Usage: "Show a NYT bestseller list",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List name, e.g. hardcover-nonfiction",
				Value:   "hardcover-fiction",
			},
		}, formatFlags()...),
		Action: r.Bestsellers,
	}
}

// reviewedCommand prints games OpenCritic reviewed this week
func reviewedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "reviewed",
		Usage:  "Show games reviewed this week",
		Flags:  formatFlags(),
		Action: r.Reviewed,
	}
}

// shelfCommand inspects and edits list cookie values
func shelfCommand(r *Runner) *cli.Command {
	valueFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "value",
			Usage: "Current cookie value (URL-encoded JSON array)",
		}
	}
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "json",
			Usage: "Output ids and cookie value as JSON",
		}
	}

	return &cli.Command{
		Name:  "shelf",
		Usage: "Decode and edit watchlist & bookshelf cookie values",
		Commands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "Print the ids stored in a cookie value",
				ArgsUsage: "<movie|game|board|book> <value>",
				Action:    r.ShelfDecode,
			},
			{
				Name:      "add",
				Usage:     "Add an id and print the new cookie value",
				ArgsUsage: "<movie|game|board|book> <id>",
				Flags:     []cli.Flag{valueFlag(), jsonFlag()},
				Action:    r.ShelfAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove an id and print the new cookie value",
				ArgsUsage: "<movie|game|board|book> <id>",
				Flags:     []cli.Flag{valueFlag(), jsonFlag()},
				Action:    r.ShelfRemove,
			},
		},
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}
