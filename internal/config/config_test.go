package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 30*time.Second || cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("timeout defaults = %+v", cfg.Server)
	}
	if cfg.Database.Path != "dugout.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	want := CategoryConfig{RankedTagID: 1, UnrankedTagID: 2, SuperstarTagID: 3, NormalTagID: 4}
	if cfg.Categories != want {
		t.Errorf("category defaults = %+v", cfg.Categories)
	}
	if cfg.Profile.RecentGames != 10 {
		t.Errorf("recent games = %d", cfg.Profile.RecentGames)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  host: 127.0.0.1
  port: 9000
database:
  path: /tmp/stats.db
categories:
  ranked_tag_id: 5
  unranked_tag_id: 6
  superstar_tag_id: 7
  normal_tag_id: 8
profile:
  recent_games: 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug || cfg.Server.Port != 9000 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Database.Path != "/tmp/stats.db" || cfg.Profile.RecentGames != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Categories.RankedTagID != 5 || cfg.Categories.NormalTagID != 8 {
		t.Errorf("categories = %+v", cfg.Categories)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("APP_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env value", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("path = %q, want env value", cfg.Database.Path)
	}
	if !cfg.Debug {
		t.Error("debug must honor APP_DEBUG")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [")
	if _, err := Load(path); err == nil {
		t.Fatal("want parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("want read error")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"negative port", "server:\n  port: -1\n", "server.port"},
		{"duplicate category ids", "categories:\n  ranked_tag_id: 1\n  unranked_tag_id: 1\n  superstar_tag_id: 3\n  normal_tag_id: 4\n", "distinct"},
		{"zero category id", "categories:\n  ranked_tag_id: 1\n  unranked_tag_id: 2\n  superstar_tag_id: 3\n  normal_tag_id: -4\n", "positive"},
		{"negative recent games", "profile:\n  recent_games: -2\n", "recent_games"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}
