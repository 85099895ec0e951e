package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lucasefe/sqleton"
	"github.com/lucasefe/sqleton/generator"
)

const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true, formatJSON: true}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, cfg Config) error {
	if cfg.Database == "" {
		return errors.New("database is required: pass it as an argument or set DATABASE_URL")
	}

	format := cfg.format()
	if !validFormats[format] {
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'png', or 'json')", format)
	}

	prog := newProgress(c.Logger)

	db, err := sqleton.Open(ctx, cfg.Driver, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	c.Logger.Debug("connected", "dialect", db.Dialect.Name(), "name", db.Name)

	opts := sqleton.Options{
		Title:         cfg.Title,
		EdgeLabels:    cfg.EdgeLabels,
		Strict:        cfg.Strict,
		Schema:        cfg.Schema,
		ExcludeTables: cfg.ExcludeTables,
		Concurrency:   cfg.Concurrency,
		Logger:        c.Logger,
	}

	out, finish, err := openOutput(stdout, cfg.Output)
	if err != nil {
		return err
	}

	err = writeFormat(ctx, out, db, opts, format)
	if err := finish(err); err != nil {
		return err
	}

	if cfg.Output != "" {
		prog.done(fmt.Sprintf("Wrote %s", cfg.Output))
	} else {
		prog.done("Rendered " + db.Name)
	}
	return nil
}

func writeFormat(ctx context.Context, w io.Writer, db *sqleton.Database, opts sqleton.Options, format string) error {
	switch format {
	case formatJSON:
		s, err := sqleton.Load(ctx, db, opts)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)

	case formatSVG, formatPNG:
		var buf bytes.Buffer
		if err := sqleton.Render(ctx, db, &buf, opts); err != nil {
			return err
		}
		img, err := generator.RenderImage(ctx, buf.Bytes(), generator.Format(format))
		if err != nil {
			return err
		}
		_, err = w.Write(img)
		return err

	default:
		return sqleton.Render(ctx, db, w, opts)
	}
}

// openOutput returns the destination writer and a finish func that closes
// it. A file left behind by a failed render is removed, since its content
// may be a truncated digraph.
func openOutput(stdout io.Writer, path string) (io.Writer, func(error) error, error) {
	if path == "" {
		return stdout, func(err error) error { return err }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	finish := func(err error) error {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
		}
		return err
	}
	return f, finish, nil
}
