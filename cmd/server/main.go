package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geoaudit/internal/analyzer"
	"geoaudit/internal/config"
	"geoaudit/internal/crawler"
	"geoaudit/internal/keypages"
	"geoaudit/internal/models"
	"geoaudit/internal/structdata"
	"geoaudit/pkg/logger"
)

type crawlReq struct {
	URL      string `json:"url"`
	MaxPages int    `json:"max_pages,omitempty"`
}

type auditResp struct {
	Snapshot *models.Snapshot `json:"snapshot"`
	Report   *analyzer.Report `json:"report"`
}

func main() {
	log := logger.New()
	cfg, err := config.Load(os.Getenv("GEOAUDIT_CONFIG"))
	if err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /crawl  { "url": "https://...", "max_pages": 10 }
	mux.HandleFunc("/crawl", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCrawlReq(w, r)
		if !ok {
			return
		}
		snap, err := runPipeline(r.Context(), cfg, log, req)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	// POST /audit  { "url": "https://..." }
	mux.HandleFunc("/audit", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCrawlReq(w, r)
		if !ok {
			return
		}
		snap, err := runPipeline(r.Context(), cfg, log, req)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		report := analyzer.Compile(
			analyzer.AnalyzeContent(snap),
			analyzer.AnalyzeHealth(snap),
			analyzer.AnalyzeCitation(snap),
			analyzer.AnalyzeCompetitors(snap, nil),
		)
		writeJSON(w, http.StatusOK, auditResp{Snapshot: snap, Report: report})
	})

	addr := os.Getenv("GEOAUDIT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Infof("server stopped")
}

func runPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger, req crawlReq) (*models.Snapshot, error) {
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = cfg.Crawl.MaxPages
	}
	client := crawler.NewHTTPClient(cfg.FetchTimeout(), 5*time.Second, 5*1024*1024, cfg.Crawl.UserAgent)
	cr := crawler.New(client, log, crawler.Options{
		MaxPages:      maxPages,
		FetchTimeout:  cfg.FetchTimeout(),
		RatePerSecond: cfg.Crawl.RatePerSecond,
	})
	snap, err := cr.Crawl(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	structdata.New(client, log, cfg.FetchTimeout()).Collect(ctx, snap)
	kp := keypages.Detect(snap.Pages)
	snap.KeyPages = kp.KeyPages
	snap.KeyEntities = append(snap.KeyEntities, kp.Entities...)
	return snap, nil
}

func decodeCrawlReq(w http.ResponseWriter, r *http.Request) (crawlReq, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return crawlReq{}, false
	}
	var req crawlReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return crawlReq{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
