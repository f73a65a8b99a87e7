package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extract.MultiVariable != "each" {
		t.Errorf("expected multi_variable each, got %s", cfg.Extract.MultiVariable)
	}

	if len(cfg.Source.Exclude) != 1 || cfg.Source.Exclude[0] != "**/generated/**" {
		t.Errorf("expected default exclude [**/generated/**], got %v", cfg.Source.Exclude)
	}

	if cfg.Source.IgnoreGitignore {
		t.Error("expected .gitignore handling on by default")
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}

	want := []string{"Modifier", "Name", "Type", "Comment"}
	if !reflect.DeepEqual(cfg.Output.Headers, want) {
		t.Errorf("expected headers %v, got %v", want, cfg.Output.Headers)
	}

	if cfg.Cache.Disabled {
		t.Error("expected cache enabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "first policy",
			modify: func(c *Config) {
				c.Extract.MultiVariable = "FIRST"
			},
			wantErr: false,
		},
		{
			name: "unknown multi_variable",
			modify: func(c *Config) {
				c.Extract.MultiVariable = "all"
			},
			wantErr: true,
		},
		{
			name: "known encoding",
			modify: func(c *Config) {
				c.Source.Encoding = "GBK"
			},
			wantErr: false,
		},
		{
			name: "unknown encoding",
			modify: func(c *Config) {
				c.Source.Encoding = "klingon"
			},
			wantErr: true,
		},
		{
			name: "table format",
			modify: func(c *Config) {
				c.Output.Format = "table"
			},
			wantErr: false,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.Format = "cgf"
			},
			wantErr: true,
		},
		{
			name: "too few headers",
			modify: func(c *Config) {
				c.Output.Headers = []string{"Name", "Type"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if !reflect.DeepEqual(merged, defaults) {
			t.Errorf("expected defaults, got %+v", merged)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Extract: ExtractConfig{MultiVariable: "first"},
			Source: SourceConfig{
				Encoding:        "gbk",
				IgnoreGitignore: true,
			},
			Output: OutputConfig{Format: "tsv"},
			Cache:  CacheConfig{Disabled: true},
		}
		merged := Merge(loaded, defaults)

		if merged.Extract.MultiVariable != "first" {
			t.Errorf("expected multi_variable first, got %s", merged.Extract.MultiVariable)
		}
		if merged.Source.Encoding != "gbk" {
			t.Errorf("expected encoding gbk, got %s", merged.Source.Encoding)
		}
		if !merged.Source.IgnoreGitignore || !merged.Cache.Disabled {
			t.Error("expected loaded booleans to be kept")
		}
		if merged.Output.Format != "tsv" {
			t.Errorf("expected format tsv, got %s", merged.Output.Format)
		}

		// Unset values should use defaults
		if !reflect.DeepEqual(merged.Source.Exclude, defaults.Source.Exclude) {
			t.Errorf("expected default exclude, got %v", merged.Source.Exclude)
		}
		if !reflect.DeepEqual(merged.Output.Headers, defaults.Output.Headers) {
			t.Errorf("expected default headers, got %v", merged.Output.Headers)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/project/subdir
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if err == nil {
			t.Error("expected error when no .jfields directory exists")
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	expectedDir := filepath.Join(tmpDir, ConfigDirName)

	t.Run("creates config directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("config directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("returns existing directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}
	})

	t.Run("rejects a file in the way", func(t *testing.T) {
		other := t.TempDir()
		if err := os.WriteFile(filepath.Join(other, ConfigDirName), nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := EnsureConfigDir(other); err == nil {
			t.Error("expected error when .jfields is a file")
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
extract:
  multi_variable: first
source:
  encoding: gbk
  exclude:
    - legacy/
output:
  format: tsv
  headers: [修饰符, 字段名, 类型, 注释]
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Extract.MultiVariable != "first" {
			t.Errorf("expected multi_variable first, got %s", cfg.Extract.MultiVariable)
		}
		if cfg.Source.Encoding != "gbk" {
			t.Errorf("expected encoding gbk, got %s", cfg.Source.Encoding)
		}
		if len(cfg.Source.Exclude) != 1 || cfg.Source.Exclude[0] != "legacy/" {
			t.Errorf("expected exclude [legacy/], got %v", cfg.Source.Exclude)
		}
		if cfg.Output.Headers[1] != "字段名" {
			t.Errorf("expected custom headers, got %v", cfg.Output.Headers)
		}

		// Defaults still apply to missing sections
		if cfg.Cache.Disabled {
			t.Error("expected cache enabled by default")
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(cfg, DefaultConfig()) {
			t.Errorf("expected default config, got %+v", cfg)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
output:
  format: xml
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from .jfields directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}

		content := `
cache:
  disabled: true
`
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(filepath.Join(tmpDir))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !cfg.Cache.Disabled {
			t.Error("expected cache disabled")
		}
	})
}

func TestSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates default config file", func(t *testing.T) {
		configPath, err := SaveDefault(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, ConfigDirName, ConfigFileName)
		if configPath != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, configPath)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "# jfields configuration") {
			t.Errorf("missing header comment:\n%s", data)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if !reflect.DeepEqual(cfg, DefaultConfig()) {
			t.Errorf("saved config doesn't match defaults: %+v", cfg)
		}
	})

	t.Run("fails if config already exists", func(t *testing.T) {
		if _, err := SaveDefault(tmpDir); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
