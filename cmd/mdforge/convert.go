package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"

	mdforge "github.com/mdforge/mdforge"
	"github.com/mdforge/mdforge/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified (pass markdown files or pipe to stdin)")
	ErrReadConfig         = errors.New("failed to read config file")
	ErrParseConfig        = errors.New("failed to parse config file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidFlagValue   = errors.New("invalid flag value")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
)

// filePermissions is the mode for written artifacts.
const filePermissions = 0o644 // rw-r--r--

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	input    string
	output   string
	err      error
	duration time.Duration
}

// run executes the whole invocation: config, overlay, batch, report.
// It returns the first fatal error; per-document failures are reported on
// stderr and folded into the exit code by the caller.
func run(ctx context.Context, flags *cliFlags, args []string, stdin io.Reader, stderr io.Writer) error {
	if flags.workers < 0 || flags.workers > mdforge.MaxPoolSize {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, flags.workers, mdforge.MaxPoolSize)
	}

	base := mdforge.DefaultConfig()
	if flags.config != "" {
		overlay, err := loadConfigFile(flags.config)
		if err != nil {
			return err
		}
		base.Apply(overlay)
	}

	cliOverlay, err := flags.buildOverlay()
	if err != nil {
		return err
	}

	opts := []mdforge.Option{
		mdforge.WithBaseConfig(base),
		mdforge.WithLogWriter(stderr),
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil {
			return fmt.Errorf("%w: --timeout: %v", ErrInvalidFlagValue, err)
		}
		opts = append(opts, mdforge.WithTimeout(d))
	}

	inputs, err := collectInputs(args, cliOverlay, stdin)
	if err != nil {
		return err
	}

	poolSize := mdforge.ResolvePoolSize(flags.workers)
	if poolSize > len(inputs) {
		poolSize = len(inputs)
	}
	pool := mdforge.NewServicePool(poolSize, opts...)
	defer pool.Close()

	results := convertAll(ctx, pool, inputs)

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "error: %s: %v\n", r.input, r.err)
			continue
		}
		if flags.verbose {
			fmt.Fprintf(stderr, "%s -> %s (%s)\n", r.input, r.output, r.duration.Round(time.Millisecond))
		}
	}
	if !flags.quiet && len(results) > 1 {
		fmt.Fprintf(stderr, "converted %d of %d documents\n", len(results)-failed, len(results))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}

// collectInputs builds the input list from positional arguments, or from
// stdin when none are given (or when the single argument is "-").
func collectInputs(args []string, overlay *mdforge.Overlay, stdin io.Reader) ([]mdforge.Input, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		content, err := io.ReadAll(stdin)
		if err != nil || len(content) == 0 {
			return nil, ErrNoInput
		}
		return []mdforge.Input{{Content: string(content), Overlay: overlay}}, nil
	}

	inputs := make([]mdforge.Input, 0, len(args))
	for _, path := range args {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, path)
		}
		inputs = append(inputs, mdforge.Input{Path: path, Overlay: overlay})
	}
	return inputs, nil
}

// convertAll fans the inputs out over the pool and collects results in
// input order.
func convertAll(ctx context.Context, pool *mdforge.ServicePool, inputs []mdforge.Input) []conversionResult {
	results := make([]conversionResult, len(inputs))
	var wg sync.WaitGroup

	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in mdforge.Input) {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			start := time.Now()
			out, err := svc.Convert(ctx, in)
			r := conversionResult{
				input:    inputName(in),
				err:      err,
				duration: time.Since(start),
			}
			if err == nil {
				r.output = out.Filename
				r.err = writeOutput(out)
			}
			results[i] = r
		}(i, in)
	}

	wg.Wait()
	return results
}

// writeOutput lands the artifact: stdout for the sentinel destination, a
// file otherwise. Devtools mode produces no content and writes nothing.
func writeOutput(out *mdforge.Output) error {
	if len(out.Content) == 0 {
		return nil
	}
	if out.Filename == mdforge.DestStdout {
		_, err := os.Stdout.Write(out.Content)
		return err
	}
	if dir := filepath.Dir(out.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(out.Filename, out.Content, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// loadConfigFile reads a YAML config file as the bottom overlay layer.
func loadConfigFile(path string) (*mdforge.Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	overlay := &mdforge.Overlay{}
	// Strict decoding: a typoed option name in a config file should fail
	// loudly instead of silently keeping the default.
	if err := yamlutil.UnmarshalStrict(data, overlay); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConfig, err)
	}
	return overlay, nil
}

func inputName(in mdforge.Input) string {
	if in.Path != "" {
		return in.Path
	}
	return "<stdin>"
}

// printUsage writes the usage banner and the flag table.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: mdforge [flags] [file.md ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converts markdown to PDF (or HTML) via headless Chrome.")
	fmt.Fprintln(w, "With no files, reads markdown from stdin and writes to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
