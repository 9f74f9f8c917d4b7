package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/gridcase/internal/app"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	// File is the TOML file defaults were read from, if any.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfig     = "GRIDCASE_CONFIG"
	envGeometry   = "GRIDCASE_GEOMETRY"
	envModel      = "GRIDCASE_MODEL"
	envResults    = "GRIDCASE_RESULTS"
	envLocation   = "GRIDCASE_LOCATION"
	envDeflection = "GRIDCASE_DEFLECTION"
	envForce      = "GRIDCASE_FORCE"
	envScript     = "GRIDCASE_SCRIPT"
	envWatch      = "GRIDCASE_WATCH"
	envSettle     = "GRIDCASE_SETTLE"
	envWidth      = "GRIDCASE_WIDTH"
	envHeight     = "GRIDCASE_HEIGHT"
	envShowFooter = "GRIDCASE_FOOTER"
	envVerbose    = "GRIDCASE_VERBOSE"
	envTrace      = "GRIDCASE_TRACE"
	envLogFile    = "GRIDCASE_LOG_FILE"
	envRootMenu   = "GRIDCASE_ROOT_MENU"
)

// fileConfig is the TOML layout. Its values sit below environment variables
// and flags.
type fileConfig struct {
	Geometry   string   `toml:"geometry"`
	Model      string   `toml:"model"`
	Results    []string `toml:"results"`
	Location   string   `toml:"location"`
	Deflection bool     `toml:"deflection"`
	Force      bool     `toml:"force"`
	Script     string   `toml:"script"`
	Watch      string   `toml:"watch"`
	Settle     string   `toml:"settle"`
	RootMenu   string   `toml:"root_menu"`
	UI         struct {
		Width   int  `toml:"width"`
		Height  int  `toml:"height"`
		Footer  bool `toml:"footer"`
		Verbose bool `toml:"verbose"`
	} `toml:"ui"`
	Log struct {
		File  string `toml:"file"`
		Trace bool   `toml:"trace"`
	} `toml:"log"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := envOrDefault(env, envConfig, "")
	if p, ok := scanConfigFlag(args); ok {
		configPath = p
	}
	var file fileConfig
	if configPath != "" {
		var err error
		if file, err = readFile(configPath); err != nil {
			return Config{}, err
		}
	}
	if file.Location == "" {
		file.Location = results.Node.String()
	}
	if file.Settle == "" {
		file.Settle = app.DefaultSettle.String()
	}

	fs := flag.NewFlagSet("gridcase", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "TOML file supplying defaults for every other flag")
	geometry := fs.String("geometry", envOrDefault(env, envGeometry, file.Geometry), "geometry file (YAML) to load at startup")
	model := fs.String("model", envOrDefault(env, envModel, file.Model), "name for the startup model (defaults to the file's own name)")
	resultList := fs.String("results", envOrDefault(env, envResults, strings.Join(file.Results, ",")), "comma-separated result files (.csv, .nod) to load at startup")
	location := fs.String("location", envOrDefault(env, envLocation, file.Location), "where result values live: node or centroid")
	deflection := fs.Bool("deflection", envOrBool(env, envDeflection, file.Deflection), "read three-column CSV files as one displacement field")
	force := fs.Bool("force", envOrBool(env, envForce, file.Force), "read three-column CSV files as one force field")
	scriptPath := fs.String("script", envOrDefault(env, envScript, file.Script), "command script to run after the startup files load")
	watch := fs.String("watch", envOrDefault(env, envWatch, file.Watch), "directory to watch for dropped result and geometry files")
	settle := fs.String("settle", envOrDefault(env, envSettle, file.Settle), "quiet period before a dropped file is read")
	width := fs.Int("width", envOrInt(env, envWidth, file.UI.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.UI.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, file.UI.Footer), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Log.Trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, file.UI.Verbose), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.Log.File), "path to the log file")
	rootMenu := fs.String("root-menu", envOrDefault(env, envRootMenu, file.RootMenu), "open this menu instead of the main menu (results, models, labels)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	loc, err := results.ParseLocation(strings.ToLower(strings.TrimSpace(*location)))
	if err != nil {
		return Config{}, err
	}
	settleDur, err := time.ParseDuration(*settle)
	if err != nil {
		return Config{}, errors.Wrapf(err, "settle %q", *settle)
	}
	if settleDur < 0 {
		return Config{}, fmt.Errorf("settle must be >= 0 (got %s)", settleDur)
	}
	if *deflection && *force {
		return Config{}, errors.WithHint(
			errors.New("deflection and force are mutually exclusive"),
			"pick one vector kind for three-column files",
		)
	}

	cfg := Config{
		App: app.Config{
			Geometry:    *geometry,
			Model:       *model,
			ResultFiles: splitList(*resultList),
			Location:    loc,
			Deflection:  *deflection,
			Force:       *force,
			Script:      *scriptPath,
			WatchDir:    *watch,
			Settle:      settleDur,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			Verbose:     *verbose,
			RootMenu:    *rootMenu,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		File: configPath,
		Flags: map[string]string{
			"config":     configPath,
			"geometry":   *geometry,
			"model":      *model,
			"results":    *resultList,
			"location":   loc.String(),
			"deflection": strconv.FormatBool(*deflection),
			"force":      strconv.FormatBool(*force),
			"script":     *scriptPath,
			"watch":      *watch,
			"settle":     settleDur.String(),
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"footer":     strconv.FormatBool(*footer),
			"trace":      strconv.FormatBool(*trace),
			"verbose":    strconv.FormatBool(*verbose),
			"logFile":    *logFile,
			"rootMenu":   *rootMenu,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// scanConfigFlag finds -config ahead of the real parse so the file can
// supply the other flags' defaults.
func scanConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg || len(arg)-len(name) > 2 {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrapf(err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, errors.Wrapf(err, "parse config %s", path)
	}
	return fc, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks that every file the configuration names exists.
func Validate(cfg Config) error {
	var errs []error
	check := func(kind, path string, wantDir bool) {
		if path == "" {
			return
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, errors.Wrapf(err, "%s", kind))
		case wantDir && !info.IsDir():
			errs = append(errs, errors.Newf("%s %s is not a directory", kind, path))
		case !wantDir && info.IsDir():
			errs = append(errs, errors.Newf("%s %s is a directory", kind, path))
		}
	}
	check("geometry", cfg.App.Geometry, false)
	for _, path := range cfg.App.ResultFiles {
		check("results", path, false)
	}
	check("script", cfg.App.Script, false)
	check("watch", cfg.App.WatchDir, true)
	if len(cfg.App.ResultFiles) > 0 && cfg.App.Geometry == "" && cfg.App.Script == "" {
		errs = append(errs, errors.WithHint(
			errors.New("results given without geometry"),
			"pass -geometry so the result rows have a model to attach to",
		))
	}
	return errors.Join(errs...)
}
