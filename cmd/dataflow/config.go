package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAnalysis = errors.New("unknown analysis")
	ErrUnknownColor    = errors.New("unknown color mode")
	ErrNoFiles         = errors.New("no input files")
)

// Analyses available from the command line.
const (
	analysisDefined = "defined"
	analysisConst   = "const"
)

// Colour modes.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// Config is the configuration of a run, read from an optional YAML file and
// overridden by command line flags.
type Config struct {
	Analysis  string   `yaml:"analysis"`
	Funcs     []string `yaml:"funcs"`     // Functions to analyse, all if empty.
	Verbosity int      `yaml:"verbosity"` // Tracing level.
	Log       string   `yaml:"log"`       // Log file, "-" for stderr.
	Color     string   `yaml:"color"`
	ShowSSA   bool     `yaml:"ssa"`
	ShowCFG   bool     `yaml:"cfg"`
}

func defaultConfig() *Config {
	return &Config{
		Analysis: analysisDefined,
		Color:    colorAuto,
	}
}

// loadConfig decodes YAML from r over c. Unknown keys are errors.
func loadConfig(r io.Reader, c *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "cannot decode config")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Analysis {
	case analysisDefined, analysisConst:
	default:
		return errors.Wrapf(ErrUnknownAnalysis, "%q (want %s or %s)", c.Analysis, analysisDefined, analysisConst)
	}
	switch c.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return errors.Wrapf(ErrUnknownColor, "%q", c.Color)
	}
	if c.Verbosity < 0 {
		return errors.Errorf("negative verbosity %d", c.Verbosity)
	}
	return nil
}

// parseArgs parses command line args into a Config and the input files.
// Flags given explicitly take precedence over the config file.
func parseArgs(args []string, output io.Writer) (*Config, []string, error) {
	var (
		fs      = flag.NewFlagSet("dataflow", flag.ContinueOnError)
		cfgPath = fs.String("config", "", "Specify YAML config file")
		flags   Config
		funcs   string
	)
	fs.SetOutput(output)
	fs.Usage = func() {
		io.WriteString(output, Usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&flags.Analysis, "analysis", analysisDefined, "Analysis to run (defined|const)")
	fs.StringVar(&funcs, "func", "", "Comma separated functions to analyse (default: all)")
	fs.IntVar(&flags.Verbosity, "v", 0, "Tracing verbosity (0-2)")
	fs.StringVar(&flags.Log, "log", "", "Specify analysis log file (use '-' for stderr)")
	fs.StringVar(&flags.Color, "color", colorAuto, "Colour output (auto|always|never)")
	fs.BoolVar(&flags.ShowSSA, "ssa", false, "Print SSA of each analysed function")
	fs.BoolVar(&flags.ShowCFG, "cfg", false, "Print block graph and loops of each analysed function")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	conf := defaultConfig()
	if *cfgPath != "" {
		f, err := os.Open(*cfgPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot open config")
		}
		defer f.Close()
		if err := loadConfig(f, conf); err != nil {
			return nil, nil, errors.Wrap(err, *cfgPath)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "analysis":
			conf.Analysis = flags.Analysis
		case "func":
			conf.Funcs = splitFuncs(funcs)
		case "v":
			conf.Verbosity = flags.Verbosity
		case "log":
			conf.Log = flags.Log
		case "color":
			conf.Color = flags.Color
		case "ssa":
			conf.ShowSSA = flags.ShowSSA
		case "cfg":
			conf.ShowCFG = flags.ShowCFG
		}
	})
	if err := conf.validate(); err != nil {
		return nil, nil, err
	}
	if fs.NArg() == 0 {
		return nil, nil, ErrNoFiles
	}
	return conf, fs.Args(), nil
}

func splitFuncs(s string) []string {
	var funcs []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			funcs = append(funcs, f)
		}
	}
	return funcs
}
