package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Faultbox/scenekit/pkg/importer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !slices.Equal(cfg.Import.Flags, []string{"default"}) {
		t.Errorf("expected flags [default], got %v", cfg.Import.Flags)
	}
	if cfg.Import.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Import.Workers)
	}
	if cfg.Import.StrictTextures {
		t.Error("expected strict_textures to be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	flags, err := cfg.ImportFlags()
	if err != nil {
		t.Fatalf("ImportFlags: %v", err)
	}
	if flags != importer.DefaultFlags {
		t.Errorf("ImportFlags() = %v, want %v", flags, importer.DefaultFlags)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scenekit.yaml")

	yamlContent := `
import:
  flags: [triangulate, gen_normals]
  workers: 4
  strict_textures: true

data:
  grf_paths: ["a.grf", "b.grf"]

logging:
  level: "debug"
  log_file: "scenekit.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Import.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Import.Workers)
	}
	if !cfg.Import.StrictTextures {
		t.Error("expected strict_textures to be true")
	}
	if !slices.Equal(cfg.Data.GRFPaths, []string{"a.grf", "b.grf"}) {
		t.Errorf("unexpected grf paths %v", cfg.Data.GRFPaths)
	}
	if cfg.Logging.LogFile != "scenekit.log" {
		t.Errorf("expected log file 'scenekit.log', got %s", cfg.Logging.LogFile)
	}

	flags, err := cfg.ImportFlags()
	if err != nil {
		t.Fatalf("ImportFlags: %v", err)
	}
	if flags != importer.Triangulate|importer.GenNormals {
		t.Errorf("ImportFlags() = %v", flags)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
import:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/scenekit.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("import:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != FileName {
		t.Errorf("expected %s, got %q", FileName, path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "info" || cfg.Import.Workers != 1 {
					t.Errorf("defaults changed: %+v", cfg)
				}
			},
		},
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "flags list",
			args: []string{"-flags", "triangulate, gen_normals,"},
			verify: func(t *testing.T, cfg *Config) {
				want := []string{"triangulate", "gen_normals"}
				if !slices.Equal(cfg.Import.Flags, want) {
					t.Errorf("expected %v, got %v", want, cfg.Import.Flags)
				}
			},
		},
		{
			name: "workers and strict",
			args: []string{"-workers", "8", "-strict"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Import.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Import.Workers)
				}
				if !cfg.Import.StrictTextures {
					t.Error("expected strict textures")
				}
			},
		},
		{
			name: "grf paths",
			args: []string{"-grf", "data.grf,rdata.grf"},
			verify: func(t *testing.T, cfg *Config) {
				if !slices.Equal(cfg.Data.GRFPaths, []string{"data.grf", "rdata.grf"}) {
					t.Errorf("unexpected grf paths %v", cfg.Data.GRFPaths)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "custom.yaml")

	yamlContent := `
import:
  workers: 3
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-workers", "6"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers from the flag, level from the file.
	if cfg.Import.Workers != 6 {
		t.Errorf("expected 6 workers from flag, got %d", cfg.Import.Workers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn from file, got %s", cfg.Logging.Level)
	}
}

func TestLoad_UnknownStep(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-flags", "bake_lightmaps"}); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(f); !errors.Is(err, importer.ErrUnknownFlag) {
		t.Errorf("got %v, want ErrUnknownFlag", err)
	}
}

func TestLoad_NilFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if cfg.Import.Workers != 1 {
		t.Errorf("expected default workers, got %d", cfg.Import.Workers)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scenekit.yaml")

	cfg := Default()
	cfg.Import.Workers = 5
	cfg.Data.GRFPaths = []string{"x.grf"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Import.Workers != 5 || !slices.Equal(loaded.Data.GRFPaths, []string{"x.grf"}) {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
