// Command manga109tools validates a Manga109-style annotation corpus.
//
// Exit status is 0 when every check passes, 1 when violations were found and
// 2 when the session could not run (bad flags, unreadable or incomplete
// exception registry, missing annotation directory).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/manga109tools/core/content"
	"github.com/FocuswithJustin/manga109tools/core/validator"
	"github.com/FocuswithJustin/manga109tools/internal/logging"
)

const version = "0.1.0"

// Exit codes.
const (
	exitPass       = 0
	exitViolations = 1
	exitConfig     = 2
)

// errViolations is returned by commands whose run completed but found
// violations.
var errViolations = errors.New("violations found")

// Globals are the flags shared by every command.
type Globals struct {
	RootDir   string `name:"root-dir" help:"Corpus root holding books.txt and the annotation directory" env:"MANGA109_ROOT" default:"." type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"warn"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" enum:"text,json" default:"text"`
}

// CLI defines the command-line interface for manga109tools.
type CLI struct {
	Globals

	Validate ValidateCmd `cmd:"" help:"Validate annotation files and corpus content"`
	Checks   ChecksCmd   `cmd:"" help:"List the content checks"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// streams carries the command output writers.
type streams struct {
	out io.Writer
	err io.Writer
}

// ValidateCmd runs a validation session.
type ValidateCmd struct {
	TargetAnnot   string   `name:"target-annot" help:"Annotation directory under the root" default:"annotations"`
	ExceptionPath string   `name:"exception-path" help:"Exception registry (YAML)" env:"MANGA109_EXCEPTIONS" default:"~/.manga109tools/exceptions.yaml" type:"path"`
	Format        string   `help:"Report format (text, json)" enum:"text,json" default:"text"`
	Enable        []string `help:"Run a check that is disabled by default (repeatable)" placeholder:"CHECK"`
}

func (c *ValidateCmd) Run(g *Globals, s *streams) error {
	if err := initLogging(g, s.err); err != nil {
		return err
	}

	v, err := validator.New(validator.Options{
		Root:          g.RootDir,
		Annotations:   c.TargetAnnot,
		ExceptionPath: c.ExceptionPath,
		Enable:        c.Enable,
	})
	if err != nil {
		return err
	}

	report, err := v.Run(context.Background())
	if err != nil {
		return err
	}

	if c.Format == "json" {
		data, err := report.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if _, err := fmt.Fprintln(s.out, string(data)); err != nil {
			return err
		}
	} else if err := report.WriteText(s.out); err != nil {
		return err
	}

	if !report.Pass() {
		return errViolations
	}
	return nil
}

// ChecksCmd lists the content checks.
type ChecksCmd struct{}

func (c *ChecksCmd) Run(s *streams) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tDEFAULT\tEXCEPTIONS\tDESCRIPTION")
	for _, check := range content.All() {
		enabled := "on"
		if check.Disabled {
			enabled = "off"
		}
		rule := check.Rule
		if rule == "" {
			rule = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", check.Name, enabled, rule, check.Description)
	}
	return tw.Flush()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(s *streams) error {
	_, err := fmt.Fprintf(s.out, "manga109tools %s\n", version)
	return err
}

func initLogging(g *Globals, w io.Writer) error {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLoggerTo(w, level, format)
	return nil
}

// exitCode is panicked by the kong exit hook so that run can return it.
type exitCode int

// run parses args, executes the selected command and returns the process
// exit status.
func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("manga109tools"),
		kong.Description("Validate Manga109 page annotations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "manga109tools: %v\n", err)
		return exitConfig
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "manga109tools: error: %v\n", err)
		return exitConfig
	}

	err = ctx.Run(&cli.Globals, &streams{out: stdout, err: stderr})
	switch {
	case err == nil:
		return exitPass
	case errors.Is(err, errViolations):
		return exitViolations
	default:
		fmt.Fprintf(stderr, "manga109tools: %s\n", strings.TrimSpace(err.Error()))
		return exitConfig
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
