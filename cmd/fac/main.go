// fac generates the Flutter sources and the SQLite migration of an app from
// its YAML configuration.
//
//	fac new -config app.yaml -output-dir ./shop
//	fac schema -config app.yaml -verify
//	fac relations -config app.yaml
//	fac watch -config app.yaml -output-dir ./shop
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
)

const usage = `Usage: fac <command> [flags]

Commands:
  new        generate the app sources and migration
  schema     print the SQLite migration
  relations  print the relationship summary and generation order
  watch      regenerate the app whenever the configuration changes

Run "fac <command> -h" for the flags of a command.
`

// options are the flags shared by all commands.
type options struct {
	config   string
	outDir   string
	out      string
	workers  int
	strict   bool
	verify   bool
	force    bool
	verbose  bool
	features []string
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, args := args[0], args[1:]
	var exec func(context.Context, *options, *slog.Logger, io.Writer) error
	switch cmd {
	case "new":
		exec = generate
	case "schema":
		exec = printSchema
	case "relations":
		exec = printRelations
	case "watch":
		exec = watch
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "fac: unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	o, err := parseFlags(cmd, args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		return 2
	}
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if err := exec(ctx, o, log, stdout); err != nil {
		log.Error(cmd+" failed", "err", err)
		return 1
	}
	return 0
}

func parseFlags(cmd string, args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("fac "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "app.yaml", "path of the app configuration")
	fs.StringVar(&o.outDir, "output-dir", ".", "root directory of the generated app")
	fs.StringVar(&o.out, "out", "", "file the schema command writes to, instead of stdout")
	fs.IntVar(&o.workers, "workers", runtime.GOMAXPROCS(0), "number of files emitted concurrently")
	fs.BoolVar(&o.strict, "strict", false, "fail on references to undeclared modules")
	fs.BoolVar(&o.verify, "verify", false, "run the migration against an in-memory SQLite database")
	fs.BoolVar(&o.force, "force", false, "emit files even if the configuration did not change")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logging")
	fs.Func("feature", "enable a codegen feature (repeatable)", func(s string) error {
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				o.features = append(o.features, name)
			}
		}
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "fac %s: unexpected arguments %q\n", cmd, fs.Args())
		return nil, errUsage
	}
	return o, nil
}
