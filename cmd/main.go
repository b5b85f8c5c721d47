// cmd/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/quotation-billing/docs" // Register the swagger spec
	"github.com/quotation-billing/pkg/archive"
	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/config"
	"github.com/quotation-billing/pkg/logging"
	"github.com/quotation-billing/pkg/register"
	"github.com/quotation-billing/pkg/render"
	"github.com/quotation-billing/pkg/server"
	"github.com/quotation-billing/pkg/session"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "quotation-billing",
		Usage: "build quotations line by line and download them as PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"QUOTE_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			totalCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger every command uses.
func setup(c *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, closeRegister, err := openRegister(ctx, cfg.Register)
			if err != nil {
				return err
			}
			defer closeRegister()

			ids, err := register.NewIDs(cfg.Register.NodeID)
			if err != nil {
				return fmt.Errorf("register node id: %w", err)
			}

			var archiver archive.Archiver = archive.Noop{}
			if cfg.Archive.Bucket != "" {
				s3, err := archive.NewS3(cfg.Archive.Region, cfg.Archive.Bucket, cfg.Archive.Prefix)
				if err != nil {
					return err
				}
				archiver = s3
				logger.Info("archiving documents", zap.String("bucket", cfg.Archive.Bucket))
			}

			store := session.NewStore(cfg.Session.TTL, cfg.Defaults(), logger)
			defer store.Close()
			go store.Run(ctx, cfg.Session.SweepInterval)

			srv := server.New(server.Deps{
				Store:          store,
				Catalog:        catalog.New(cfg.Catalog),
				Renderer:       render.NewRenderer(cfg.Document.Layout, logger),
				Register:       reg,
				IDs:            ids,
				Archiver:       archiver,
				Logger:         logger,
				BackgroundPath: cfg.Document.BackgroundPath,
				UploadDir:      cfg.Server.UploadDir,
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
			})
			return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		},
	}
}

func openRegister(ctx context.Context, cfg config.Register) (register.Register, func(), error) {
	if cfg.Driver != "postgres" {
		return register.NewMemoryRegister(), func() {}, nil
	}
	pg, err := register.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return pg, func() { _ = pg.Close() }, nil
}
