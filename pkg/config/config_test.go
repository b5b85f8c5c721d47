package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Document.Title != "QUOTATION / BILL" || cfg.Document.BackgroundPath != "pdfbg6.jpg" {
		t.Fatalf("unexpected document defaults %+v", cfg.Document)
	}
	if len(cfg.Catalog) != 5 {
		t.Fatalf("expected default catalog, got %v", cfg.Catalog)
	}
	if cfg.Defaults().Company.Name != "SAMARTH TRADERS" {
		t.Fatalf("unexpected default company %q", cfg.Defaults().Company.Name)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 3s
session:
  ttl: 30m
document:
  title: ESTIMATE
  routing_label: Routing No.
  background_path: ""
company:
  name: Acme Supplies
bank:
  bank_name: First Bank
catalog:
  - Pipe
  - Elbow
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected server %+v", cfg.Server)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Session.TTL)
	}
	if cfg.Document.Title != "ESTIMATE" || cfg.Document.RoutingLabel != "Routing No." {
		t.Fatalf("unexpected layout %+v", cfg.Document.Layout)
	}
	if cfg.Document.ClosingNote != "Thank you for your business!" {
		t.Fatalf("expected untouched defaults to survive, got %q", cfg.Document.ClosingNote)
	}
	if cfg.Document.BackgroundPath != "" {
		t.Fatalf("expected background to be disabled, got %q", cfg.Document.BackgroundPath)
	}
	d := cfg.Defaults()
	if d.Company.Name != "Acme Supplies" || d.Bank.BankName != "First Bank" {
		t.Fatalf("unexpected defaults %+v", d)
	}
	if len(cfg.Catalog) != 2 || cfg.Catalog[1] != "Elbow" {
		t.Fatalf("unexpected catalog %v", cfg.Catalog)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUOTE_ADDR", ":7070")
	t.Setenv("QUOTE_REGISTER_DSN", "postgres://u:p@localhost/quotes?sslmode=disable")
	t.Setenv("QUOTE_ARCHIVE_BUCKET", "quotes-archive")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Register.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.Register.Driver)
	}
	if cfg.Archive.Bucket != "quotes-archive" {
		t.Fatalf("unexpected bucket %q", cfg.Archive.Bucket)
	}
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "5000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"blank addr":       func(c *Config) { c.Server.Addr = "" },
		"no upload limit":  func(c *Config) { c.Server.MaxUploadBytes = 0 },
		"negative ttl":     func(c *Config) { c.Session.TTL = -time.Second },
		"blank company":    func(c *Config) { c.Company.Name = " " },
		"postgres no dsn":  func(c *Config) { c.Register.Driver = "postgres" },
		"unknown driver":   func(c *Config) { c.Register.Driver = "mongo" },
		"bucket no region": func(c *Config) { c.Archive.Bucket = "b"; c.Archive.Region = "" },
		"bad page size":    func(c *Config) { c.Document.PageSize = "Postcard" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	letter := Default()
	letter.Document.PageSize = "Letter"
	if err := letter.Validate(); err != nil {
		t.Fatalf("letter page size rejected: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
