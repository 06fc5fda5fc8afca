package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoaudit/internal/analyzer"
	"geoaudit/internal/crawler"
	"geoaudit/internal/keypages"
	"geoaudit/internal/monitor"
	"geoaudit/internal/structdata"
	"geoaudit/pkg/logger"
)

const homeHTML = `<html><head>
<title>Acme Widgets</title>
<meta name="description" content="Industrial widgets and fittings for demanding applications worldwide.">
<script type="application/ld+json">{"@type":"Organization","name":"Acme Corp"}</script>
</head><body>
<h1>Acme Widgets</h1>
<p>Acme has made industrial widgets since 1952. Our catalog covers fittings,
flanges, and custom tooling for manufacturers in forty countries. Every widget
ships with a calibration report and a lifetime service agreement backed by our
engineering team in Springfield.</p>
<a href="/about">About</a> <a href="/blog">Blog</a>
</body></html>`

const aboutHTML = `<html><head><title>About Acme</title></head><body>
<h1>About</h1><p>Founded by the author of the original widget patent.</p>
<a href="/">Home</a>
</body></html>`

func newTestSite() *httptest.Server {
	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.Handle("/", serve(homeHTML))
	mux.Handle("/about", serve(aboutHTML))
	mux.Handle("/blog", serve(`<html><head><title>Blog</title></head><body><h1>Blog</h1><p>Posts.</p></body></html>`))
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return httptest.NewServer(mux)
}

func TestFullAuditPipeline(t *testing.T) {
	ts := newTestSite()
	defer ts.Close()

	log := logger.New()
	client := crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1024*1024, "")
	cr := crawler.New(client, log, crawler.Options{MaxPages: 10})

	ctx := context.Background()
	snap, err := cr.Crawl(ctx, ts.URL)
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if snap.RobotsTxt.Exists || len(snap.Sitemaps) != 0 {
		t.Fatalf("site has neither robots nor sitemap: %#v", snap.RobotsTxt)
	}

	structdata.New(client, log, 5*time.Second).Collect(ctx, snap)
	kp := keypages.Detect(snap.Pages)
	snap.KeyPages = kp.KeyPages
	snap.KeyEntities = append(snap.KeyEntities, kp.Entities...)

	if len(snap.KeyPages) == 0 || snap.KeyPages[0].Type != "homepage" {
		t.Fatalf("home should rank as top key page: %#v", snap.KeyPages)
	}

	content := analyzer.AnalyzeContent(snap)
	health := analyzer.AnalyzeHealth(snap)
	citation := analyzer.AnalyzeCitation(snap)
	competitor := analyzer.AnalyzeCompetitors(snap, nil)
	report := analyzer.Compile(content, health, citation, competitor)

	if !hasType(report, "missing_robots_txt") || !hasType(report, "missing_sitemap") {
		t.Fatalf("health issues missing from compiled report")
	}
	if !citation.Signals.Organization {
		t.Fatalf("organization schema not detected: %#v", citation.Signals)
	}
	if report.OverallScore <= 0 || report.OverallScore > 100 {
		t.Fatalf("overall score out of range: %v", report.OverallScore)
	}

	// the enriched snapshot diffs cleanly against itself
	if diff := monitor.Compare(snap, snap); diff.Summary.HasChanges {
		t.Fatalf("self-diff after enrichment must be empty: %#v", diff.Changes)
	}
}

func hasType(report *analyzer.Report, typ string) bool {
	for _, is := range report.Issues {
		if is.Type == typ {
			return true
		}
	}
	return false
}
