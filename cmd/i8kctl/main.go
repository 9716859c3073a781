package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"i8kctl/internal/config"
	"i8kctl/internal/decimal"
	"i8kctl/internal/logger"
	"i8kctl/internal/report"
	"i8kctl/internal/sensor"
	"i8kctl/internal/sysfs"
	"i8kctl/internal/timing"
)

var version = "dev"

// Exit codes follow sysexits.h.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 64
	exitDataErr = 65
	exitConfig  = 78
)

const (
	programName  = "i8kctl"
	argsDoc      = "[STATE]"
	programIntro = "i8kctl -- a utility for fan control on Dell notebooks"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type request struct {
	kind      sensor.Kind
	haveKind  bool
	number    int
	value     int
	haveValue bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [OPTION...] %s\n%s\n\n", programName, argsDoc, programIntro)
		fs.PrintDefaults()
	}

	var (
		typeArg     string
		numberArg   string
		configPath  string
		verbose     bool
		showVersion bool
	)
	fs.StringVarP(&typeArg, "sensor-type", "s", "", `Type of sensor to read/write, can be "fan", "tacho" or "temp"`)
	fs.StringVarP(&numberArg, "sensor-number", "n", "", "Number of sensor to read/write")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	fs.StringVarP(&configPath, "config", "c", "", "Path to YAML config")
	fs.BoolVar(&showVersion, "version", false, "Print program version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", programName)
		return exitUsage
	}
	if showVersion {
		fmt.Fprintf(stdout, "%s version %s\n", programName, version)
		return exitOK
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "%s: Too many arguments\n", programName)
		return exitUsage
	}

	req, err := parseRequest(fs, typeArg, numberArg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitDataErr
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s: config load failed: %v\n", programName, err)
			return exitConfig
		}
	}
	cfg.Verbose = cfg.Verbose || verbose

	log := logger.NewWithWriter(stderr, cfg.Verbose)
	disp := newDispatcher(cfg, log)

	if !req.haveKind {
		if err := report.Overview(stdout, disp, log, cfg.Report.Fans, cfg.Report.Temps); err != nil {
			fmt.Fprintf(stderr, "Unable to print overview: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	if !req.haveValue {
		v, err := disp.Read(req.kind, req.number)
		if err != nil {
			fmt.Fprintf(stderr, "Unable to read sensor: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "%d\n", v)
		return exitOK
	}

	if err := disp.Write(req.kind, req.number, req.value); err != nil {
		fmt.Fprintf(stderr, "Unable to write sensor: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func parseRequest(fs *pflag.FlagSet, typeArg, numberArg string) (request, error) {
	req := request{number: -1}

	if fs.Changed("sensor-type") {
		kind, err := sensor.ParseKind(typeArg)
		if err != nil {
			return request{}, fmt.Errorf("Invalid sensor type '%s'", typeArg)
		}
		req.kind = kind
		req.haveKind = true
	}

	if fs.Changed("sensor-number") {
		n, err := decimal.Parse(numberArg)
		if err != nil {
			return request{}, fmt.Errorf("Invalid sensor number '%s': %w", numberArg, err)
		}
		if n < 1 {
			return request{}, errors.New("Sensor number cannot be less than 1")
		}
		req.number = n - 1
	}

	if fs.NArg() == 1 {
		v, err := decimal.Parse(fs.Arg(0))
		if err != nil {
			return request{}, fmt.Errorf("Invalid sensor value '%s': %w", fs.Arg(0), err)
		}
		if v < 0 {
			return request{}, errors.New("Sensor value cannot be negative")
		}
		req.value = v
		req.haveValue = true
	}

	if req.haveKind {
		if req.number < 0 {
			return request{}, errors.New("Missing sensor number")
		}
	} else if req.number >= 0 || req.haveValue {
		return request{}, errors.New("Missing sensor type")
	}
	return req, nil
}

// newDispatcher ranks procfs ahead of sysfs; on kernels without /proc/i8k the
// procfs open fails and every call falls through to sysfs.
func newDispatcher(cfg config.Config, log logger.Logger) *sensor.Dispatcher {
	var backends []sensor.Backend
	if cfg.Procfs.Enabled() {
		backends = append(backends, sensor.NewProcfsBackend(cfg.Procfs.Path))
	}
	backends = append(backends, sensor.NewSysfsBackend(sysfs.NewScanner(cfg.Sysfs.ScannerConfig())))
	return sensor.NewDispatcher(timing.NewTracer(cfg.Verbose, log), backends...)
}
