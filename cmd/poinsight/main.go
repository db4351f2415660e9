package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/importer"
	"github.com/andresuchdata/po-insights/backend-go/internal/insights"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/andresuchdata/po-insights/backend-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type session struct {
	store  *store.Store
	engine *analytics.Engine
}

func main() {
	_ = godotenv.Load(".env")

	sess := &session{store: store.New()}
	sess.engine = analytics.NewEngine(sess.store, analytics.WithLogger(logger.Component("analytics")))

	app := &cli.App{
		Name:  "poinsight",
		Usage: "Compute PO, vendor and product KPIs from exported sheets",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "po",
				Usage:   "Closed PO file (csv or xlsx), repeatable",
				EnvVars: []string{"POINSIGHT_PO_FILES"},
			},
			&cli.StringSliceFlag{
				Name:    "open-po",
				Usage:   "Open PO file (csv or xlsx), repeatable",
				EnvVars: []string{"POINSIGHT_OPEN_PO_FILES"},
			},
			&cli.StringSliceFlag{
				Name:    "landing-rates",
				Usage:   "Landing rate file (csv or xlsx), repeatable",
				EnvVars: []string{"POINSIGHT_LANDING_RATE_FILES"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: sess.load,
		Commands: []*cli.Command{
			{
				Name:   "metrics",
				Usage:  "Print the dashboard KPIs and case totals",
				Action: sess.metrics,
			},
			{
				Name:  "vendors",
				Usage: "Rank vendors",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "by", Value: "value", Usage: "value, fill_rate, orders, underperforming, summary"},
					&cli.IntFlag{Name: "limit", Value: analytics.DefaultLimit},
				},
				Action: sess.vendors,
			},
			{
				Name:  "products",
				Usage: "Rank products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "by", Value: "landing_rate", Usage: "landing_rate, value, orders, fill_rate, summary"},
					&cli.StringFlag{Name: "category", Usage: "Filter by category substring"},
					&cli.IntFlag{Name: "limit", Value: analytics.DefaultLimit},
				},
				Action: sess.products,
			},
			{
				Name:      "prompt",
				Usage:     "Build the assistant prompt for a question",
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "summary-only", Usage: "Print only the pre-computed analysis"},
				},
				Action: sess.prompt,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("poinsight failed")
	}
}

func (s *session) load(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	var files []importer.File
	add := func(kind importer.Kind, paths []string) {
		for _, p := range paths {
			files = append(files, importer.File{Kind: kind, Name: filepath.Base(p), Path: p})
		}
	}
	add(importer.KindPO, c.StringSlice("po"))
	add(importer.KindOpenPO, c.StringSlice("open-po"))
	add(importer.KindLandingRate, c.StringSlice("landing-rates"))
	if len(files) == 0 {
		return nil
	}

	imp := importer.New(s.store,
		importer.WithLogger(logger.Component("importer")),
		importer.WithInvalidator(func(ctx context.Context) error {
			s.engine.ClearCaches()
			s.engine.UpdateUniversalPO(s.store)
			return nil
		}),
	)
	if _, err := imp.ImportFiles(c.Context, files); err != nil {
		return fmt.Errorf("load files: %w", err)
	}
	return nil
}

func (s *session) metrics(c *cli.Context) error {
	return printJSON(c, map[string]any{
		"dashboard":           s.engine.AllMetrics(),
		"sumOfPOCases":        s.engine.SumOfPOCases(),
		"sumOfClosedPOCases":  s.engine.SumOfClosedPOCases(),
		"sumOfGrnCases":       s.engine.SumOfGrnCases(),
		"sumOfPOBillingValue": s.engine.SumOfPOBillingValue(),
		"sumOfGrnBillValue":   s.engine.SumOfGrnBillValue(),
		"openPOValue":         s.engine.SumOfOpenPOBillingValue(),
		"openPOCount":         s.engine.OpenPOCount(),
		"cases":               s.engine.CaseBreakdown(),
	})
}

func (s *session) vendors(c *cli.Context) error {
	limit := c.Int("limit")
	switch strings.ToLower(c.String("by")) {
	case "value":
		return printJSON(c, s.engine.TopVendorsByValue(limit))
	case "fill_rate":
		return printJSON(c, s.engine.TopVendorsByFillRate(limit))
	case "orders":
		return printJSON(c, s.engine.TopVendorsByOrderCount(limit))
	case "underperforming":
		return printJSON(c, s.engine.UnderperformingVendors(limit))
	case "summary":
		return printJSON(c, s.engine.VendorPerformanceSummary())
	default:
		return fmt.Errorf("unknown vendor ranking %q", c.String("by"))
	}
}

func (s *session) products(c *cli.Context) error {
	limit := c.Int("limit")
	if category := c.String("category"); category != "" {
		return printJSON(c, s.engine.ProductsByCategory(category, limit))
	}

	switch strings.ToLower(c.String("by")) {
	case "landing_rate":
		return printJSON(c, s.engine.BestProductsByLandingRate(limit))
	case "value":
		return printJSON(c, s.engine.BestProductsByValue(limit))
	case "orders":
		return printJSON(c, s.engine.BestProductsByOrderCount(limit))
	case "fill_rate":
		return printJSON(c, s.engine.BestProductsByFillRate(limit))
	case "summary":
		return printJSON(c, s.engine.ProductPerformanceSummary())
	default:
		return fmt.Errorf("unknown product ranking %q", c.String("by"))
	}
}

func (s *session) prompt(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return cli.Exit("a question is required", 2)
	}

	assistant := insights.NewAssistant(s.engine, s.store)
	if c.Bool("summary-only") {
		_, err := fmt.Fprintln(c.App.Writer, assistant.Analyze(question).Summary)
		return err
	}

	_, err := fmt.Fprintln(c.App.Writer, assistant.BuildPrompt(question).Text)
	return err
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
