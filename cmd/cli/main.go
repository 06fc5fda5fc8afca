package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"geoaudit/internal/analyzer"
	"geoaudit/internal/config"
	"geoaudit/internal/crawler"
	"geoaudit/internal/keypages"
	"geoaudit/internal/models"
	"geoaudit/internal/monitor"
	"geoaudit/internal/storage"
	"geoaudit/internal/structdata"
	"geoaudit/pkg/logger"
)

const fetchSizeCap = 5 * 1024 * 1024 // 5MB per page

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "geoaudit",
		Short:         "Audit a website's readiness to be indexed and cited by AI search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "geoaudit.toml", "path to TOML config file")
	root.AddCommand(
		newCrawlCmd(&cfgPath),
		newAuditCmd(&cfgPath),
		newBaselineCmd(&cfgPath),
		newCheckCmd(&cfgPath),
		newValidateCmd(&cfgPath),
	)
	return root
}

func load(cfgPath string) (*config.Config, *logger.Logger, error) {
	log := logger.New()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newCrawler(cfg *config.Config, log *logger.Logger, maxPages int) *crawler.Crawler {
	if maxPages <= 0 {
		maxPages = cfg.Crawl.MaxPages
	}
	client := crawler.NewHTTPClient(cfg.FetchTimeout(), 5*time.Second, fetchSizeCap, cfg.Crawl.UserAgent)
	return crawler.New(client, log, crawler.Options{
		MaxPages:      maxPages,
		FetchTimeout:  cfg.FetchTimeout(),
		RatePerSecond: cfg.Crawl.RatePerSecond,
	})
}

// crawlAndEnrich runs the full snapshot pipeline: crawl, structured-data
// pass, key-page detection. Enrichment completes before any analyzer
// sees the snapshot.
func crawlAndEnrich(ctx context.Context, cfg *config.Config, log *logger.Logger, seed string, maxPages int) (*models.Snapshot, error) {
	snap, err := newCrawler(cfg, log, maxPages).Crawl(ctx, seed)
	if err != nil {
		return nil, err
	}
	client := crawler.NewHTTPClient(cfg.FetchTimeout(), 5*time.Second, fetchSizeCap, cfg.Crawl.UserAgent)
	structdata.New(client, log, cfg.FetchTimeout()).Collect(ctx, snap)

	kp := keypages.Detect(snap.Pages)
	snap.KeyPages = kp.KeyPages
	snap.KeyEntities = append(snap.KeyEntities, kp.Entities...)
	return snap, nil
}

func newCrawlCmd(cfgPath *string) *cobra.Command {
	var maxPages int
	var out string
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site and write its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*cfgPath)
			if err != nil {
				return err
			}
			snap, err := crawlAndEnrich(cmd.Context(), cfg, log, args[0], maxPages)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(cfg.DataDir, "site_snapshot.json")
			}
			if err := storage.WriteJSON(out, snap); err != nil {
				return err
			}
			log.Infof("crawled %d pages in %dms -> %s", snap.PagesCrawled, snap.CrawlDurationMs, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page budget (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "snapshot output path")
	return cmd
}

func newAuditCmd(cfgPath *string) *cobra.Command {
	var maxPages int
	var snapshotPath, customerPath string
	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Run the full audit pipeline and compile the issue report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*cfgPath)
			if err != nil {
				return err
			}

			var competitors []models.Competitor
			if customerPath != "" {
				cust, err := storage.LoadCustomer(customerPath)
				if err != nil {
					return err
				}
				competitors = cust.Competitors
				if len(args) == 0 && snapshotPath == "" {
					args = []string{cust.WebsiteURL}
				}
			}

			var snap *models.Snapshot
			switch {
			case snapshotPath != "":
				snap, err = storage.LoadSnapshot(snapshotPath)
				if err != nil {
					return err
				}
				if len(snap.KeyPages) == 0 {
					kp := keypages.Detect(snap.Pages)
					snap.KeyPages = kp.KeyPages
					snap.KeyEntities = append(snap.KeyEntities, kp.Entities...)
				}
			case len(args) == 1:
				snap, err = crawlAndEnrich(cmd.Context(), cfg, log, args[0], maxPages)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("need a url, --snapshot, or --customer")
			}

			content := analyzer.AnalyzeContent(snap)
			health := analyzer.AnalyzeHealth(snap)
			citation := analyzer.AnalyzeCitation(snap)
			competitor := analyzer.AnalyzeCompetitors(snap, competitors)
			report := analyzer.Compile(content, health, citation, competitor)

			runID := uuid.NewString()[:8]
			runDir := filepath.Join(cfg.DataDir, "runs", runID)
			outputs := map[string]any{
				"site_snapshot.json":      snap,
				"content_coverage.json":   content,
				"crawl_health.json":       health,
				"citation_readiness.json": citation,
				"competitor_gap.json":     competitor,
				"issues.json":             report,
			}
			for name, v := range outputs {
				if err := storage.WriteJSON(filepath.Join(runDir, name), v); err != nil {
					return err
				}
			}

			printReport(report)
			log.Infof("audit run %s written to %s", runID, runDir)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page budget (default from config)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "audit an existing snapshot file instead of crawling")
	cmd.Flags().StringVar(&customerPath, "customer", "", "customer record with competitors and target queries")
	return cmd
}

func newBaselineCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline <snapshot.json>",
		Short: "Promote a snapshot to the monitoring baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*cfgPath)
			if err != nil {
				return err
			}
			snap, err := storage.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			store := monitor.NewStore(cfg.MonitoringState, log)
			baselinePath := filepath.Join(cfg.DataDir, "baseline_snapshot.json")
			_, err = store.CreateBaseline(snap, baselinePath)
			return err
		},
	}
	return cmd
}

func newCheckCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <snapshot.json>",
		Short: "Compare a snapshot against the baseline and evaluate alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*cfgPath)
			if err != nil {
				return err
			}
			snap, err := storage.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			store := monitor.NewStore(cfg.MonitoringState, log)
			res, err := store.RunCheck(snap)
			if err != nil {
				return err
			}
			fmt.Printf("status: %s\n", res.Status)
			if res.Diff != nil {
				fmt.Printf("changes: %d (pages +%d/-%d)\n",
					len(res.Diff.Changes), res.Diff.Summary.PagesAdded, res.Diff.Summary.PagesRemoved)
			}
			for _, a := range res.Alerts {
				fmt.Printf("[%s] %s: %s\n", a.Level, a.Type, a.Message)
			}
			return nil
		},
	}
	return cmd
}

func newValidateCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.json> <schema-name>",
		Short: "Validate a data file against a named schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*cfgPath)
			if err != nil {
				return err
			}
			res, err := storage.ValidateFile(args[0], cfg.SchemaDir, args[1], log)
			if err != nil {
				return err
			}
			if res.Valid {
				fmt.Println("valid")
				return nil
			}
			for _, e := range res.Errors {
				fmt.Fprintln(os.Stderr, e)
			}
			return fmt.Errorf("%s failed validation against %s", args[0], args[1])
		},
	}
	return cmd
}

func printReport(report *analyzer.Report) {
	scores := table.NewWriter()
	scores.SetOutputMirror(os.Stdout)
	scores.AppendHeader(table.Row{"Category", "Score"})
	for _, cat := range []string{
		analyzer.CategoryContent, analyzer.CategoryHealth,
		analyzer.CategoryCitation, analyzer.CategoryCompetitor,
	} {
		scores.AppendRow(table.Row{cat, fmt.Sprintf("%.0f", report.Scores[cat])})
	}
	scores.AppendFooter(table.Row{"overall", fmt.Sprintf("%.1f", report.OverallScore)})
	scores.Render()

	if len(report.Issues) == 0 {
		fmt.Println("no issues found")
		return
	}
	issues := table.NewWriter()
	issues.SetOutputMirror(os.Stdout)
	issues.AppendHeader(table.Row{"ID", "Severity", "Type", "Page"})
	for _, is := range report.Issues {
		issues.AppendRow(table.Row{is.ID, is.Severity, is.Type, is.Page})
	}
	issues.Render()
}
