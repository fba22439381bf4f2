// Command passmeter scores, analyses and generates passwords from the
// terminal.
//
//	passmeter [flags] [password]
//
// With no password argument the first line of stdin is used, so secrets
// need not appear in shell history.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/pkg/report"
	"github.com/passmeter/passmeter/pkg/strength"
	"github.com/passmeter/passmeter/pkg/types"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

type options struct {
	analyze    bool
	generate   bool
	length     int
	asJSON     bool
	locale     string
	userInputs stringList
	password   *string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("passmeter failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	tr := i18n.New(opts.locale)

	if opts.generate {
		pw, err := generator.New().Generate(opts.length)
		if err != nil {
			return err
		}
		gen := types.Generated{
			Password:   pw,
			Length:     len(pw),
			Evaluation: report.Evaluation(strength.Evaluate(pw), tr),
		}
		if opts.asJSON {
			return writeJSON(stdout, gen)
		}
		fmt.Fprintln(stdout, pw)
		printEvaluation(stdout, gen.Evaluation)
		return nil
	}

	pw := ""
	if opts.password != nil {
		pw = *opts.password
	} else if pw, err = readLine(stdin); err != nil {
		return err
	}

	if opts.analyze {
		est, err := analysis.NewEstimator(1, 0)
		if err != nil {
			return err
		}
		defer est.Close()
		e := est.Estimate(pw, opts.userInputs)
		a := report.Analysis(pw, analysis.Analyze(pw), &e, tr)
		if opts.asJSON {
			return writeJSON(stdout, a)
		}
		printAnalysis(stdout, a, tr)
		return nil
	}

	ev := report.Evaluation(strength.Evaluate(pw), tr)
	if opts.asJSON {
		return writeJSON(stdout, ev)
	}
	printEvaluation(stdout, ev)
	if ev.Length == 0 {
		fmt.Fprintln(stdout, tr.Text("generate.hint"))
	}
	return nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("passmeter", flag.ContinueOnError)
	fs.BoolVar(&opts.analyze, "analyze", false, "print the complexity analysis and zxcvbn estimate")
	fs.BoolVar(&opts.generate, "generate", false, "generate a secure password instead of reading one")
	fs.IntVar(&opts.length, "length", generator.DefaultLength, "length of generated passwords")
	fs.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	fs.StringVar(&opts.locale, "locale", envLocale(), "output locale ("+strings.Join(i18n.Supported(), ", ")+")")
	fs.Var(&opts.userInputs, "user-input", "word that makes a password weaker, such as a user name (repeatable)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		pw := fs.Arg(0)
		opts.password = &pw
	default:
		return opts, fmt.Errorf("expected at most one password argument, got %d", fs.NArg())
	}
	if opts.generate && opts.password != nil {
		return opts, errors.New("-generate does not take a password argument")
	}
	return opts, nil
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// --- output -----------------------------------------------------------------

func printEvaluation(w io.Writer, ev types.Evaluation) {
	fmt.Fprintf(w, "%s (%d/%d)\n", ev.Label, ev.Score, ev.MaxScore)
	for _, c := range ev.Criteria {
		mark := " "
		if c.Met {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, c.Label)
	}
	for _, t := range ev.Tips {
		fmt.Fprintf(w, "  - %s\n", t.Text)
	}
}

func printAnalysis(w io.Writer, a types.Analysis, tr *i18n.Translator) {
	printEvaluation(w, a.Evaluation)
	fmt.Fprintf(w, "%s: %d\n", tr.Text("analysis.length"), a.Length)
	fmt.Fprintf(w, "%s: %d\n", tr.Text("analysis.charset"), a.CharsetSize)
	fmt.Fprintf(w, "%s: %.2f\n", tr.Text("analysis.entropy"), a.EntropyBits)
	fmt.Fprintf(w, "%s: %d\n", tr.Text("analysis.unique"), a.UniqueChars)
	for _, p := range a.Patterns {
		fmt.Fprintf(w, "  ! %s\n", p.Text)
	}
	fmt.Fprintf(w, "%s: %s\n", tr.Text("analysis.crack_time"), a.CrackTime)
	if a.Estimate != nil {
		fmt.Fprintf(w, "zxcvbn: %d/4 (%s)\n", a.Estimate.Score, a.Estimate.CrackTimeDisplay)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// envLocale returns the first of LC_ALL, LC_MESSAGES and LANG that is set.
// POSIX suffixes such as ".UTF-8" are handled by i18n.Match.
func envLocale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
