package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes into dir for the duration of the test; t.Chdir needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, dir)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
database:
  addrs:
    - localhost:6379
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Index.Name != "benji" {
		t.Errorf("index name = %q", cfg.Index.Name)
	}
	if cfg.Model.VocabularyPath != "data/vocabulary.json" {
		t.Errorf("vocabulary path = %q", cfg.Model.VocabularyPath)
	}
	if cfg.Cache.Dir != "data/posts" {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.GPT.Model != "gpt-3.5-turbo-instruct" {
		t.Errorf("gpt model = %q", cfg.GPT.Model)
	}
	if cfg.Search.Window != 200 || cfg.Search.Limit != 3 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Wordpress.PageSize != 20 {
		t.Errorf("page size = %d", cfg.Wordpress.PageSize)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis.internal:6379")
	writeConfig(t, `
http:
  port: 8080
database:
  addrs:
    - ${TEST_REDIS_ADDR}
index:
  name: ${TEST_INDEX_NAME:-fallback}
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Addrs[0] != "redis.internal:6379" {
		t.Errorf("addr = %q", cfg.Database.Addrs[0])
	}
	if cfg.Index.Name != "fallback" {
		t.Errorf("index name = %q", cfg.Index.Name)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	writeConfig(t, `
http:
  port: 0
database:
  addrs:
    - localhost:6379
`)
	if _, err := Load("test"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_LimitExceedsWindow(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
database:
  addrs:
    - localhost:6379
search:
  discovery_window: 5
  limit: 10
`)
	if _, err := Load("test"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("absent"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
