package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/luki/sensorwatch/internal/clock"
	"github.com/luki/sensorwatch/internal/fixture"
	"github.com/luki/sensorwatch/internal/monitor"
	"github.com/luki/sensorwatch/internal/registry"
	"github.com/luki/sensorwatch/internal/report"
)

func main() {
	args := os.Args[1:]
	cmd := "report"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = strings.ToLower(args[0]), args[1:]
	}

	var err error
	switch cmd {
	case "report":
		err = runReport(args)
	case "watch":
		err = runWatch(args)
	case "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printHelp()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: sensorwatch [report|watch] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  report   evaluate the fixture at a frozen instant and print a summary (default)")
	fmt.Println("  watch    live view of the fixture on the wall clock")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -fixture file.yaml   sensors and readings to load (default: built-in)")
	fmt.Println("  -window 5m           recent-readings window (default: fixture's)")
	fmt.Println("  -v                   debug logging")
}

type options struct {
	fixture string
	window  time.Duration
	verbose bool
}

func parseFlags(name string, args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.fixture, "fixture", "", "YAML fixture file")
	fs.DurationVar(&o.window, "window", 0, "recent-readings window")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.window < 0 {
		return o, fmt.Errorf("negative window %s", o.window)
	}
	return o, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

func loadFixture(o options) (*fixture.Fixture, error) {
	f := fixture.Default()
	if o.fixture != "" {
		var err error
		if f, err = fixture.Load(o.fixture); err != nil {
			return nil, err
		}
	}
	if o.window > 0 {
		f.Window = o.window
	}
	return f, nil
}

func runReport(args []string) error {
	o, err := parseFlags("report", args)
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, o)
}

// writeReport applies the fixture to a registry frozen at the current time
// and prints the diagnostic to w.
func writeReport(w io.Writer, o options) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := newLogger(level)

	f, err := loadFixture(o)
	if err != nil {
		return err
	}

	// Freeze "now" so readings taken exactly window ago stay inside it.
	c := clock.NewFixed(time.Now())
	reg := registry.New(
		registry.WithClock(c),
		registry.WithPolicy(f.RegistryPolicy()),
		registry.WithLogger(log),
	)
	f.Apply(reg, c.Now())
	log.Debug("fixture applied", "sensors", len(f.Sensors), "readings", reg.Len(), "window", f.Window)

	return report.Write(w, reg, f.Window)
}

func runWatch(args []string) error {
	o, err := parseFlags("watch", args)
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal; only errors are logged.
	log := newLogger(slog.LevelError)

	f, err := loadFixture(o)
	if err != nil {
		return err
	}

	reg := registry.New(
		registry.WithPolicy(f.RegistryPolicy()),
		registry.WithLogger(log),
	)
	f.Apply(reg, reg.Now())

	return monitor.Run(reg, f.Window)
}
