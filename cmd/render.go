// cmd/render.go

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/config"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/ledger"
	"github.com/quotation-billing/pkg/logging"
	"github.com/quotation-billing/pkg/money"
	"github.com/quotation-billing/pkg/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a quotation file to PDF",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "quotation file (YAML or JSON)", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: invoice_<date>_<customer>.pdf)"},
			&cli.StringFlag{Name: "background", Usage: "background image, overrides the configured one"},
			&cli.StringFlag{Name: "logo", Usage: "logo image drawn top-left on every page"},
			&cli.TimestampFlag{Name: "date", Layout: "2006-01-02", Usage: "document date (default: today)"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			doc, err := invoice.LoadDocument(c.String("input"))
			if err != nil {
				return err
			}
			snap, err := buildSnapshot(cfg, doc)
			if err != nil {
				return err
			}

			date := time.Now()
			if ts := c.Timestamp("date"); ts != nil {
				date = *ts
			}
			background := cfg.Document.BackgroundPath
			if c.IsSet("background") {
				background = c.String("background")
			}

			out, err := render.NewRenderer(cfg.Document.Layout, logger).Render(snap, render.Options{
				BackgroundPath: background,
				LogoPath:       c.String("logo"),
				Date:           date,
			})
			if err != nil {
				return err
			}

			path := c.String("out")
			if path == "" {
				path = invoice.FileName(snap.Customer.Name, date)
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Info("document written",
				zap.String("path", path),
				zap.Int("items", len(snap.Items)),
				zap.String("grand_total", money.Format(snap.GrandTotal)),
			)
			return nil
		},
	}
}

// buildSnapshot runs every item of doc through a fresh ledger so files get
// the same validation and numbering as interactive sessions. Company and
// bank blocks fall back to the configured ones: the company whenever its
// name is blank, the bank when it is left out entirely.
func buildSnapshot(cfg config.Config, doc *invoice.Document) (invoice.Snapshot, error) {
	details := doc.Details
	defaults := cfg.Defaults()
	if strings.TrimSpace(details.Company.Name) == "" {
		details.Company = defaults.Company
	}
	if details.Bank == (invoice.BankDetails{}) {
		details.Bank = defaults.Bank
	}
	if err := details.Validate(); err != nil {
		return invoice.Snapshot{}, err
	}

	products := catalog.New(cfg.Catalog)
	l := ledger.New()
	for i, in := range doc.Items {
		description, err := products.Describe(in.Product, in.Description)
		if err != nil {
			return invoice.Snapshot{}, fmt.Errorf("item %d: %q: %w", i+1, in.Product, err)
		}
		if _, err := l.Add(description, in.Quantity, in.Rate); err != nil {
			return invoice.Snapshot{}, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return l.Capture(details), nil
}

func totalCommand() *cli.Command {
	return &cli.Command{
		Name:      "total",
		Usage:     "add up a column of amounts, skipping anything that is not a number",
		ArgsUsage: "AMOUNT...",
		Action: func(c *cli.Context) error {
			logger, err := logging.New("warn", true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			total, skipped := ledger.SumAmounts(logger, c.Args().Slice())
			fmt.Fprintln(c.App.Writer, money.Format(total))
			if skipped > 0 {
				fmt.Fprintf(c.App.ErrWriter, "%d value(s) skipped\n", skipped)
			}
			return nil
		},
	}
}
