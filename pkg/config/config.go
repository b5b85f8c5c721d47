// pkg/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/render"
	"gopkg.in/yaml.v3"
)

// Config is the whole service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Session  Session  `yaml:"session"`
	Document Document `yaml:"document"`
	Company  Party    `yaml:"company"`
	Bank     Bank     `yaml:"bank"`
	Catalog  []string `yaml:"catalog"`
	Register Register `yaml:"register"`
	Archive  Archive  `yaml:"archive"`
}

// Server holds the HTTP listener and upload settings.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	UploadDir       string        `yaml:"upload_dir"`
}

// Log selects the zap level and encoder.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Session controls how long idle sessions are kept.
type Session struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Document controls the rendered PDF.
type Document struct {
	render.Layout  `yaml:",inline"`
	BackgroundPath string `yaml:"background_path"`
}

// Party pre-fills the company block of new sessions.
type Party struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	TaxID   string `yaml:"tax_id"`
}

// Bank pre-fills the bank block of new sessions.
type Bank struct {
	BankName      string `yaml:"bank_name"`
	AccountNumber string `yaml:"account_number"`
	RoutingCode   string `yaml:"routing_code"`
}

// Register selects where issued documents are recorded.
type Register struct {
	Driver string `yaml:"driver"` // memory or postgres
	DSN    string `yaml:"dsn"`
	NodeID int64  `yaml:"node_id"`
}

// Archive enables S3 copies of issued documents when Bucket is set.
type Archive struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  5 * 1024 * 1024, // 5MB file size limit for logo
		},
		Log: Log{Level: "info"},
		Session: Session{
			TTL:           2 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Document: Document{
			Layout:         render.DefaultLayout(),
			BackgroundPath: "pdfbg6.jpg",
		},
		Company: Party{
			Name: "SAMARTH TRADERS",
			Address: "Dealer of All Types of Plumbing\n" +
				"A.P.V.C, C.P.V.C, P.V.C, S.W.R & C.P. Fittings\n" +
				"Nivara Models building, Pinguli Titha, Pinguli\n" +
				"Nerur road, Tal.-Kudal, Dist.-Sindhudurg, Maharashtra-416520",
			Phone: "+91 ",
		},
		Catalog:  append([]string(nil), catalog.DefaultProducts...),
		Register: Register{Driver: "memory", NodeID: 1},
		Archive:  Archive{Region: "us-east-1"},
	}
}

// Load reads .env (if present), then the YAML file at path (if any), then
// QUOTE_* environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	override("QUOTE_ADDR", &c.Server.Addr)
	override("QUOTE_UPLOAD_DIR", &c.Server.UploadDir)
	override("QUOTE_LOG_LEVEL", &c.Log.Level)
	override("QUOTE_BACKGROUND_PATH", &c.Document.BackgroundPath)
	override("QUOTE_REGISTER_DSN", &c.Register.DSN)
	override("QUOTE_ARCHIVE_BUCKET", &c.Archive.Bucket)
	override("QUOTE_ARCHIVE_REGION", &c.Archive.Region)

	// Render and Heroku style platforms hand out the port on its own
	if port := os.Getenv("PORT"); port != "" && os.Getenv("QUOTE_ADDR") == "" {
		c.Server.Addr = ":" + port
	}
	if c.Register.DSN != "" && os.Getenv("QUOTE_REGISTER_DSN") != "" {
		c.Register.Driver = "postgres"
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	if strings.TrimSpace(c.Company.Name) == "" {
		return errors.New("company.name is required")
	}
	if err := c.Document.Layout.Validate(); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	switch c.Register.Driver {
	case "memory", "":
	case "postgres":
		if c.Register.DSN == "" {
			return errors.New("register.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown register driver %q", c.Register.Driver)
	}
	if c.Archive.Bucket != "" && c.Archive.Region == "" {
		return errors.New("archive.region is required when archive.bucket is set")
	}
	return nil
}

// Defaults converts the configured company and bank into the details a new
// session starts with.
func (c Config) Defaults() invoice.Details {
	return invoice.Details{
		Company: invoice.PartyDetails{
			Name:    c.Company.Name,
			Address: c.Company.Address,
			Phone:   c.Company.Phone,
			Email:   c.Company.Email,
			TaxID:   c.Company.TaxID,
		},
		Bank: invoice.BankDetails{
			BankName:      c.Bank.BankName,
			AccountNumber: c.Bank.AccountNumber,
			RoutingCode:   c.Bank.RoutingCode,
		},
	}
}
