// Command worksheet generates an arithmetic worksheet offline and writes it
// as LaTeX source or PDF.
//
//	worksheet [flags] n_digit n_page page_offset
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/dalbom/arithmetic/internal/logger"
	"github.com/dalbom/arithmetic/internal/random"
	"github.com/dalbom/arithmetic/internal/render"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/texlive"
	"github.com/rs/zerolog"
)

type options struct {
	spec     arithmetic.WorksheetSpec
	seed     uint64
	hasSeed  bool
	format   string
	output   string
	lang     string
	texlive  string
	branding bool
}

func main() {
	log := logger.Setup(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "pretty"))
	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("Worksheet generation failed")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("worksheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: worksheet [flags] n_digit n_page page_offset")
		fs.PrintDefaults()
	}

	op := fs.String("op", "addition", "Operation: addition, subtraction, multiplication or division")
	operands := fs.Int("operands", 2, "Operands per problem (2-5)")
	questions := fs.Int("questions", 20, "Questions per page (1-50)")
	easy := fs.Bool("easy", false, "Keep subtraction non-negative and division exact")
	carry := fs.String("carry", "none", "Carry control: none, requireCarry or preventCarry")
	seed := fs.String("seed", "", "Generator seed; random when empty")
	answerKey := fs.Bool("answer-key", false, "Also write an answer key")
	format := fs.String("format", "tex", "Output format: tex or pdf")
	output := fs.String("o", "worksheet", "Output file name without extension")
	name := fs.String("name", "", "Worksheet title")
	child := fs.String("child", "", "Child name printed in the header")
	school := fs.String("school", "", "School name printed in the header")
	lang := fs.String("lang", "en", "Label language: en or ko")
	texURL := fs.String("texlive", "", "Compile PDFs through this LaTeX endpoint instead of the native renderer")
	branding := fs.Bool("branding", true, "Print the footer credit line")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return nil, fmt.Errorf("expected 3 positional arguments, got %d", fs.NArg())
	}

	var pos [3]int
	for i, label := range []string{"n_digit", "n_page", "page_offset"} {
		n, err := strconv.Atoi(fs.Arg(i))
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %q", label, fs.Arg(i))
		}
		if n < 1 {
			return nil, fmt.Errorf("%s must be at least 1, got %d", label, n)
		}
		pos[i] = n
	}

	if *operands < service.MinOperands {
		return nil, fmt.Errorf("operands must be at least %d, got %d", service.MinOperands, *operands)
	}
	digits := make([]int, *operands)
	for i := range digits {
		digits[i] = pos[0]
	}

	o := &options{
		spec: arithmetic.WorksheetSpec{
			Name:          *name,
			ChildName:     *child,
			SchoolName:    *school,
			NumberOfPages: pos[1],
			PageOffset:    pos[2],
			Problems: []arithmetic.ProblemSpec{{
				Operation:        arithmetic.Operation(*op),
				OperandDigits:    digits,
				QuestionsPerPage: *questions,
				EasyMode:         *easy,
				CarryControl:     arithmetic.CarryControl(*carry),
			}},
			IncludeAnswerKey: *answerKey,
		},
		format:   *format,
		output:   *output,
		lang:     *lang,
		texlive:  *texURL,
		branding: *branding,
	}

	if *seed != "" {
		s, err := strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed must be an unsigned integer: %q", *seed)
		}
		o.seed, o.hasSeed = s, true
	}
	if o.format != "tex" && o.format != "pdf" {
		return nil, fmt.Errorf("format must be tex or pdf, got %q", o.format)
	}

	// Offline generation is not bound by plan limits, only by structure.
	if err := service.Authorize(entitlement.Plan{Pro: true}, o.spec, entitlement.Request{}); err != nil {
		return nil, err
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log zerolog.Logger) error {
	o, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}

	if !o.hasSeed {
		if o.seed, err = random.NewSeed(); err != nil {
			return err
		}
	}

	w := arithmetic.NewGenerator(o.seed).GenerateWorksheet(o.spec)
	if f := w.Fallbacks(); f > 0 {
		log.Warn().Int("fallbacks", f).Msg("Some problems could not satisfy their constraints")
	}

	ro := render.Options{Lang: o.lang, ShowBranding: o.branding}
	type outputFile struct {
		path      string
		answerKey bool
	}
	files := []outputFile{{o.output, false}}
	if o.spec.IncludeAnswerKey {
		files = append(files, outputFile{o.output + "-answers", true})
	}

	var compiler *texlive.Client
	if o.format == "pdf" && o.texlive != "" {
		compiler = texlive.NewClient(o.texlive, 60*time.Second)
	}

	for _, f := range files {
		ro.AnswerKey = f.answerKey
		data, err := renderFile(ctx, w, ro, o.format, compiler, log)
		if err != nil {
			return err
		}
		path := f.path + "." + o.format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}

	fmt.Fprintf(stdout, "%s: %d page(s), seed %d\n", render.Title(w), len(w.Pages), w.Seed)
	return nil
}

func renderFile(ctx context.Context, w arithmetic.Worksheet, ro render.Options, format string, compiler *texlive.Client, log zerolog.Logger) ([]byte, error) {
	if format == "tex" {
		return []byte(render.LaTeX(w, ro)), nil
	}
	if compiler != nil {
		pdf, err := compiler.Compile(ctx, render.LaTeX(w, ro))
		if err == nil {
			return pdf, nil
		}
		log.Warn().Err(err).Msg("LaTeX compile failed, using native renderer")
	}
	return render.PDF(w, ro)
}
