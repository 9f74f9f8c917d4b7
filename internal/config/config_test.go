package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/gridcase/internal/app"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/atomicstack/gridcase/internal/testutil"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Location != results.Node {
		t.Fatalf("expected node location, got %s", cfg.App.Location)
	}
	if cfg.App.Settle != app.DefaultSettle {
		t.Fatalf("expected settle %s, got %s", app.DefaultSettle, cfg.App.Settle)
	}
	if cfg.App.ShowFooter || cfg.Logging.Trace || cfg.Features.Verbose {
		t.Fatalf("expected toggles off by default: %#v", cfg)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadArgsFlags(t *testing.T) {
	args := []string{
		"-geometry", "plate.yaml",
		"-model", "plate",
		"-results", "a.csv, b.nod",
		"-location", "centroid",
		"-deflection",
		"-watch", "drop",
		"-settle", "2s",
		"-width", "80",
		"-height", "24",
		"-footer",
		"-verbose",
		"-trace",
		"-log-file", "trace.log",
		"-root-menu", "results",
	}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	got := cfg.App
	if got.Geometry != "plate.yaml" || got.Model != "plate" {
		t.Fatalf("unexpected geometry/model: %#v", got)
	}
	if len(got.ResultFiles) != 2 || got.ResultFiles[0] != "a.csv" || got.ResultFiles[1] != "b.nod" {
		t.Fatalf("unexpected result files: %#v", got.ResultFiles)
	}
	if got.Location != results.Centroid || !got.Deflection || got.Force {
		t.Fatalf("unexpected result options: %#v", got)
	}
	if got.WatchDir != "drop" || got.Settle != 2*time.Second {
		t.Fatalf("unexpected watch settings: %#v", got)
	}
	if got.Width != 80 || got.Height != 24 || !got.ShowFooter || !got.Verbose || got.RootMenu != "results" {
		t.Fatalf("unexpected ui settings: %#v", got)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "trace.log" {
		t.Fatalf("unexpected logging: %#v", cfg.Logging)
	}
	if cfg.Flags["location"] != "centroid" || cfg.Flags["settle"] != "2s" {
		t.Fatalf("unexpected flags map: %#v", cfg.Flags)
	}
	if len(cfg.Args) != len(args) {
		t.Fatalf("expected args to be kept, got %#v", cfg.Args)
	}
}

func TestLoadArgsEnvironment(t *testing.T) {
	env := []string{
		"GRIDCASE_WIDTH=120",
		"GRIDCASE_FOOTER=1",
		"GRIDCASE_LOCATION=element",
		"GRIDCASE_WIDTH_BAD",
		"GRIDCASE_HEIGHT=nope",
		"",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Width != 120 {
		t.Fatalf("expected width from env, got %d", cfg.App.Width)
	}
	if cfg.App.Height != 0 {
		t.Fatalf("expected unparsable env height to fall back, got %d", cfg.App.Height)
	}
	if !cfg.App.ShowFooter {
		t.Fatalf("expected footer from env")
	}
	if cfg.App.Location != results.Centroid {
		t.Fatalf("expected centroid location, got %s", cfg.App.Location)
	}

	cfg, err = LoadArgs([]string{"-width", "60"}, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Width != 60 {
		t.Fatalf("expected flag to override env, got %d", cfg.App.Width)
	}
}

func TestLoadArgsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "gridcase.toml", strings.Join([]string{
		`geometry = "plate.yaml"`,
		`results = ["a.csv", "b.csv"]`,
		`location = "centroid"`,
		`settle = "1500ms"`,
		`root_menu = "models"`,
		``,
		`[ui]`,
		`width = 100`,
		`footer = true`,
		``,
		`[log]`,
		`file = "from-file.log"`,
	}, "\n"))

	cfg, err := LoadArgs([]string{"-config", path, "-width", "90"}, []string{"GRIDCASE_LOG_FILE=from-env.log"})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.File != path {
		t.Fatalf("expected file %q, got %q", path, cfg.File)
	}
	if cfg.App.Geometry != "plate.yaml" || len(cfg.App.ResultFiles) != 2 {
		t.Fatalf("expected file values, got %#v", cfg.App)
	}
	if cfg.App.Location != results.Centroid || cfg.App.Settle != 1500*time.Millisecond {
		t.Fatalf("unexpected location/settle: %#v", cfg.App)
	}
	if cfg.App.RootMenu != "models" || !cfg.App.ShowFooter {
		t.Fatalf("unexpected ui values: %#v", cfg.App)
	}
	if cfg.App.Width != 90 {
		t.Fatalf("expected flag to override file width, got %d", cfg.App.Width)
	}
	if cfg.Logging.FilePath != "from-env.log" {
		t.Fatalf("expected env to override file log path, got %q", cfg.Logging.FilePath)
	}
}

func TestLoadArgsConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "gridcase.toml", "model = \"beam\"\n")
	cfg, err := LoadArgs(nil, []string{"GRIDCASE_CONFIG=" + path})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Model != "beam" {
		t.Fatalf("expected model from env-named file, got %q", cfg.App.Model)
	}
}

func TestLoadArgsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteFile(t, dir, "bad.toml", "width = [\n")
	cases := map[string][]string{
		"negative width":   {"-width", "-1"},
		"negative height":  {"-height", "-5"},
		"unknown location": {"-location", "edge"},
		"bad settle":       {"-settle", "soon"},
		"both vectors":     {"-deflection", "-force"},
		"unknown flag":     {"-socket", "x"},
		"missing file":     {"-config", filepath.Join(dir, "absent.toml")},
		"malformed file":   {"--config=" + bad},
	}
	for name, args := range cases {
		if _, err := LoadArgs(args, nil); err == nil {
			t.Fatalf("%s: expected error for %v", name, args)
		}
	}
}

func TestScanConfigFlag(t *testing.T) {
	cases := []struct {
		args []string
		want string
		ok   bool
	}{
		{[]string{"-config", "a.toml"}, "a.toml", true},
		{[]string{"--config=b.toml"}, "b.toml", true},
		{[]string{"-width", "3", "-config=c.toml"}, "c.toml", true},
		{[]string{"--", "-config", "d.toml"}, "", false},
		{[]string{"config", "e.toml"}, "", false},
		{[]string{"-config"}, "", false},
	}
	for _, tc := range cases {
		got, ok := scanConfigFlag(tc.args)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("scanConfigFlag(%v) = %q, %v; want %q, %v", tc.args, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	geom := testutil.WriteFile(t, dir, "plate.yaml", testutil.PlateYAML)
	res := testutil.WriteFile(t, dir, "temps.csv", "# t\n1\n")

	ok := Config{App: app.Config{Geometry: geom, ResultFiles: []string{res}, WatchDir: dir}}
	if err := Validate(ok); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := Validate(Config{}); err != nil {
		t.Fatalf("expected empty config to validate, got %v", err)
	}

	cases := map[string]Config{
		"missing geometry": {App: app.Config{Geometry: filepath.Join(dir, "nope.yaml")}},
		"missing results":  {App: app.Config{Geometry: geom, ResultFiles: []string{filepath.Join(dir, "nope.csv")}}},
		"watch not dir":    {App: app.Config{WatchDir: res}},
		"geometry is dir":  {App: app.Config{Geometry: dir}},
		"orphan results":   {App: app.Config{ResultFiles: []string{res}}},
	}
	for name, cfg := range cases {
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
