// Package cli implements the sqleton command-line interface.
//
// The single command reads a database's catalog and writes the schema as a
// Graphviz digraph, an SVG or PNG image, or JSON. Settings come from an
// optional TOML config file, the environment (including a .env file) and
// flags, in increasing order of precedence.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lucasefe/sqleton/internal/buildinfo"
)

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// RootCommand creates the sqleton command.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
		flags      Config
	)

	root := &cobra.Command{
		Use:   "sqleton [flags] <database>",
		Short: "Draw a database schema as a Graphviz digraph",
		Long: `sqleton reads the tables, columns and foreign keys of a SQLite, PostgreSQL or
MySQL database and writes them as a Graphviz digraph: one node per table,
one edge per foreign key.`,
		Example: `  sqleton app.db | dot -Tsvg > app.svg
  sqleton -e -o schema.png app.db
  sqleton -d postgres "postgres://localhost/shop?sslmode=disable" -x migrations`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.Logger.SetLevel(LogDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mergeFlags(cmd, &cfg, flags)
			if len(args) == 1 {
				cfg.Database = args[0]
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.Flags()
	f.StringVarP(&flags.Output, "output", "o", "", "output file (default: stdout)")
	f.StringVarP(&flags.Format, "format", "f", "", "output format: dot, svg, png, json (default: from output extension, else dot)")
	f.StringVarP(&flags.Title, "title", "t", "", "graph title (default: database file name)")
	f.BoolVarP(&flags.EdgeLabels, "edge-labels", "e", false, "label edges with source and target columns")
	f.StringVarP(&flags.Driver, "driver", "d", "", "database driver: sqlite, postgres, pgx, mysql (default: detected)")
	f.StringVarP(&flags.Schema, "schema", "s", "", "database schema to read (postgres, mysql)")
	f.StringSliceVarP(&flags.ExcludeTables, "exclude", "x", nil, "tables to leave out (repeatable, comma-separated)")
	f.BoolVar(&flags.Strict, "strict", false, "fail when a foreign key references an unknown table")
	f.IntVar(&flags.Concurrency, "concurrency", 0, "maximum catalog queries in flight (0: unlimited)")
	f.StringVarP(&configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

// mergeFlags copies every flag the user set explicitly over cfg.
func mergeFlags(cmd *cobra.Command, cfg *Config, flags Config) {
	changed := cmd.Flags().Changed

	if changed("output") {
		cfg.Output = flags.Output
	}
	if changed("format") {
		cfg.Format = flags.Format
	}
	if changed("title") {
		cfg.Title = flags.Title
	}
	if changed("edge-labels") {
		cfg.EdgeLabels = flags.EdgeLabels
	}
	if changed("driver") {
		cfg.Driver = flags.Driver
	}
	if changed("schema") {
		cfg.Schema = flags.Schema
	}
	if changed("exclude") {
		cfg.ExcludeTables = flags.ExcludeTables
	}
	if changed("strict") {
		cfg.Strict = flags.Strict
	}
	if changed("concurrency") {
		cfg.Concurrency = flags.Concurrency
	}
}
