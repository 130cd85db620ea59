package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rubiojr/cindent/config"
	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/indent"
	"github.com/rubiojr/cindent/logging"
	"github.com/rubiojr/cindent/mode"
	"github.com/rubiojr/cindent/transform"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the cindent CLI with the given version string.
func Execute(version string) {
	cmd := New(version)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what the Before hook resolved to the actions.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds the root command. Output goes to the command's Writer, so
// tests can swap it.
func New(version string) *cli.Command {
	a := &app{cfg: config.Default(), logger: slog.Default()}
	return &cli.Command{
		Name:                   "cindent",
		Usage:                  "Indent C/C++ sources with embedded R chunks",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("CINDENT_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			{
				Name:      "states",
				Usage:     "Print the lexer state at the end of every row",
				ArgsUsage: "<file>",
				Action:    a.statesAction,
			},
			{
				Name:      "next",
				Usage:     "Print the indent of the line inserted after a row",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "row", Aliases: []string{"r"}, Usage: "Zero-based row", Required: true},
					&cli.IntFlag{Name: "column", Aliases: []string{"c"}, Usage: "Caret column on the row", Value: indent.NoCaret},
				},
				Action: a.nextAction,
			},
			{
				Name:      "explain",
				Usage:     "Show which rule decides the indent after a row",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "row", Aliases: []string{"r"}, Usage: "Zero-based row", Required: true},
					&cli.IntFlag{Name: "column", Aliases: []string{"c"}, Usage: "Caret column on the row", Value: indent.NoCaret},
				},
				Action: a.explainAction,
			},
			{
				Name:      "reindent",
				Usage:     "Reindent a whole file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write the result back to the file"},
				},
				Action: a.reindentAction,
			},
			{
				Name:      "toggle-comment",
				Usage:     "Comment or uncomment a range of rows",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "start", Usage: "First row", Required: true},
					&cli.IntFlag{Name: "end", Usage: "Last row (inclusive)", Required: true},
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write the result back to the file"},
				},
				Action: a.toggleAction,
			},
			{
				Name:   "insert-chunk",
				Usage:  "Print an empty embedded chunk",
				Action: a.chunkAction,
			},
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return ctx, err
	}

	noColor := cmd.Bool("no-color") || os.Getenv("NO_COLOR") != ""
	errw := cmd.Root().ErrWriter
	a.logger = logging.Setup(errw, level, noColor || !isTerminal(errw))
	color.NoColor = noColor || !isTerminal(cmd.Root().Writer)
	a.cfg = cfg
	return ctx, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) mode(doc document.Document) *mode.Mode {
	return mode.New(doc,
		mode.WithEmbeddedPrefix(a.cfg.EmbeddedPrefix),
		mode.WithIndentUnit(a.cfg.Unit(), a.cfg.TabSize),
		mode.WithChunkLanguage(a.cfg.ChunkLanguage),
		mode.WithLogger(a.logger),
	)
}

func out(cmd *cli.Command) io.Writer { return cmd.Root().Writer }

func (a *app) statesAction(ctx context.Context, cmd *cli.Command) error {
	doc, _, err := loadDocument(cmd, "states")
	if err != nil {
		return err
	}
	m := a.mode(doc)
	w := out(cmd)
	for row, state := range m.States() {
		fmt.Fprintf(w, "%4d  %-10s %s\n", row, state, doc.Line(row))
	}
	return nil
}

func (a *app) request(cmd *cli.Command, m *mode.Mode) indent.Request {
	row := cmd.Int("row")
	doc := m.Document()
	return indent.Request{
		State:   m.State(row),
		Line:    doc.Line(row),
		Tab:     a.cfg.Unit(),
		TabSize: a.cfg.TabSize,
		Row:     row,
		Column:  cmd.Int("column"),
	}
}

func (a *app) nextAction(ctx context.Context, cmd *cli.Command) error {
	doc, _, err := loadDocument(cmd, "next")
	if err != nil {
		return err
	}
	m := a.mode(doc)
	fmt.Fprintf(out(cmd), "%q\n", m.NextLineIndent(a.request(cmd, m)))
	return nil
}

func (a *app) explainAction(ctx context.Context, cmd *cli.Command) error {
	doc, _, err := loadDocument(cmd, "explain")
	if err != nil {
		return err
	}
	m := a.mode(doc)
	req := a.request(cmd, m)
	d := m.Explain(req)

	bold := color.New(color.Bold).SprintFunc()
	rule := color.New(color.FgCyan).SprintFunc()
	w := out(cmd)
	fmt.Fprintf(w, "%s %d %s\n", bold("row"), req.Row, req.Line)
	fmt.Fprintf(w, "%s %s (%s)\n", bold("state"), req.State, m.LanguageMode(req.Row))
	fmt.Fprintf(w, "%s %s\n", bold("rule"), rule(d.Rule))
	fmt.Fprintf(w, "%s %q\n", bold("indent"), d.Indent)
	return nil
}

func (a *app) reindentAction(ctx context.Context, cmd *cli.Command) error {
	doc, path, err := loadDocument(cmd, "reindent")
	if err != nil {
		return err
	}
	lines := a.mode(doc).Reindent(doc.Lines())
	return emit(cmd, path, document.NewBuffer(lines))
}

func (a *app) toggleAction(ctx context.Context, cmd *cli.Command) error {
	doc, path, err := loadDocument(cmd, "toggle-comment")
	if err != nil {
		return err
	}
	m := a.mode(doc)
	start := cmd.Int("start")
	if err := m.ToggleCommentLines(m.State(start-1), start, cmd.Int("end")); err != nil {
		return err
	}
	return emit(cmd, path, doc)
}

func (a *app) chunkAction(ctx context.Context, cmd *cli.Command) error {
	text, _ := transform.Chunk(a.cfg.ChunkLanguage)
	fmt.Fprint(out(cmd), text)
	return nil
}

// loadDocument reads the file named by the first argument, or standard
// input when it is "-".
func loadDocument(cmd *cli.Command, name string) (*document.Buffer, string, error) {
	if cmd.NArg() < 1 {
		return nil, "", fmt.Errorf("usage: cindent %s <file>", name)
	}
	path := cmd.Args().First()
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.Root().Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return document.FromString(strings.ReplaceAll(string(data), "\r\n", "\n")), path, nil
}

// emit writes doc to the file when --write is set, to the output otherwise.
func emit(cmd *cli.Command, path string, doc *document.Buffer) error {
	if !cmd.Bool("write") || path == "-" {
		_, err := io.WriteString(out(cmd), doc.String())
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(doc.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
