package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/formula"
)

// CLI is the command-line interface for formula.
type CLI struct {
	Log logConfig `embed:"" group:"log" prefix:"log-"`

	In          string            `help:"Input file of formulas, one per line, or '-' for stdin (default stdin if no formulas are given)." short:"i" type:"path"`
	Given       map[string]string `help:"name=value variable definition (any number of times)." short:"g"`
	Vars        []string          `help:"YAML file(s) of variable definitions. Nested keys join with dots." type:"existingfile"`
	DatePattern string            `default:"yyyyMMddHHmmss" env:"FORMULA_DATE_PATTERN" help:"Default date pattern for to_date and to_char."`
	Echo        bool              `help:"Print parse trees before results."`

	Formulas []string `arg:"" help:"Formulas to evaluate." optional:""`
}

type logConfig struct {
	Level  string `default:"warn" enum:"debug,info,warn,error" env:"FORMULA_LOG_LEVEL" help:"Set log level."`
	Format string `default:"text" enum:"json,text" env:"FORMULA_LOG_FORMAT" help:"Set log format."`
}

func (c *logConfig) logger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// errFailed is returned from run when at least one formula failed. The
// failures have already been reported.
var errFailed = errors.New("formula: some formulas failed")

var (
	formulaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// source is a formula with the place it came from.
type source struct {
	text string
	from string
	line int
}

func (c *CLI) run(stdin io.Reader, stdout, stderr io.Writer) error {
	log := c.Log.logger(stderr)

	vars := make(formula.MapSource)
	for _, name := range c.Vars {
		b, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		m, err := flattenYAML(b)
		if err != nil {
			return fmt.Errorf("reading variables from %s: %w", name, err)
		}
		log.Debug("loaded variables", slog.String("file", name), slog.Int("count", len(m)))
		for k, v := range m {
			vars[k] = v
		}
	}
	for k, v := range c.Given {
		vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	srcs, err := c.sources(stdin)
	if err != nil {
		return err
	}

	ctx := formula.NewContext(vars, formula.DatePattern(c.DatePattern))
	failed := false
	for _, src := range srcs {
		log := log.With(slog.String("formula", src.text), slog.String("from", src.from))
		if src.line > 0 {
			log = log.With(slog.Int("line", src.line))
		}
		e, err := formula.ParseString(src.text)
		if err != nil {
			failed = true
			var uf *formula.UnknownFunctionError
			if errors.As(err, &uf) {
				if s := suggest(uf.Name, formula.Builtins()); s != "" {
					log = log.With(slog.String("suggestion", s))
				}
			}
			log.Error("parse failed", slog.Any("error", err))
			caret(stderr, src.text, err)
			continue
		}
		if c.Echo {
			fmt.Fprint(stdout, e.String(), " : ")
		}
		r, err := ctx.Eval(e)
		if err != nil {
			failed = true
			if c.Echo {
				fmt.Fprintln(stdout)
			}
			log.Error("evaluation failed", slog.Any("error", err))
			continue
		}
		log.Debug("evaluated", slog.String("kind", r.Kind().String()))
		fmt.Fprintln(stdout, resultStyle.Render(r.String()))
	}
	if failed {
		return errFailed
	}
	return nil
}

// sources collects the formulas to evaluate: the input file first, then the
// arguments.
func (c *CLI) sources(stdin io.Reader) ([]source, error) {
	var r []source
	var in io.Reader
	from := c.In
	switch {
	case c.In != "" && c.In != "-":
		f, err := os.Open(c.In)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	case c.In == "-", len(c.Formulas) == 0:
		in, from = stdin, "stdin"
	}
	if in != nil {
		sc := bufio.NewScanner(in)
		for line := 1; sc.Scan(); line++ {
			s := strings.TrimSpace(sc.Text())
			if s == "" {
				continue
			}
			r = append(r, source{text: s, from: from, line: line})
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}
	for _, s := range c.Formulas {
		r = append(r, source{text: s, from: "args"})
	}
	return r, nil
}

// caret writes the formula with a marker under the position of an input
// error.
func caret(w io.Writer, src string, err error) {
	var ie formula.InputError
	if !errors.As(err, &ie) || ie.Pos() < 1 {
		return
	}
	fmt.Fprintln(w, formulaStyle.Render(src))
	fmt.Fprintln(w, strings.Repeat(" ", ie.Pos()-1)+caretStyle.Render("^ "+err.Error()))
}
