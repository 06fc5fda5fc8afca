// Package crawler walks a single host from a seed URL and assembles a
// site snapshot, one page record per fetched URL.
package crawler

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"geoaudit/internal/extractor"
	"geoaudit/internal/models"
	"geoaudit/pkg/logger"
)

const (
	DefaultMaxPages     = 10
	DefaultFetchTimeout = 10 * time.Second
)

type Options struct {
	// MaxPages bounds how many page records a crawl may produce. This is
	// the primary guard against runaway traversal on densely linked
	// sites; there is no separate depth limit.
	MaxPages int
	// FetchTimeout bounds each individual request. A timed-out fetch is
	// recorded as a failed page, never a failed crawl.
	FetchTimeout time.Duration
	// RatePerSecond paces fetches; zero means unlimited.
	RatePerSecond float64
}

type Crawler struct {
	client  *HTTPClient
	limiter *rate.Limiter
	log     *logger.Logger
	opts    Options
}

func New(client *HTTPClient, log *logger.Logger, opts Options) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return &Crawler{client: client, limiter: limiter, log: log, opts: opts}
}

// Crawl traverses same-host pages depth-first from seed until the page
// budget or the frontier runs out. Traversal is sequential: the frontier
// is an explicit stack and the visited set is owned by this call, so no
// URL is fetched twice and the budget is never exceeded.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*models.Snapshot, error) {
	seedURL, err := url.Parse(seed)
	if err != nil || seedURL.Scheme == "" || seedURL.Host == "" {
		return nil, fmt.Errorf("invalid seed url %q", seed)
	}
	host := seedURL.Hostname()
	start := time.Now()

	snap := &models.Snapshot{
		WebsiteURL: seed,
		CrawledAt:  start.UTC(),
		Sitemaps:   []string{},
	}
	snap.RobotsTxt.Exists, snap.Sitemaps = c.probeRobots(ctx, seedURL)

	frontier := []string{extractor.NormalizeURL(seedURL)}
	visited := map[string]struct{}{}

	for len(frontier) > 0 && len(snap.Pages) < c.opts.MaxPages && ctx.Err() == nil {
		u := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, ok := visited[u]; ok {
			continue
		}
		visited[u] = struct{}{}

		rec, links := c.fetchPage(ctx, u)
		snap.Pages = append(snap.Pages, rec)

		// Push in reverse so the first link on the page is crawled next.
		for i := len(links) - 1; i >= 0; i-- {
			link := links[i]
			lu, err := url.Parse(link)
			if err != nil || lu.Hostname() != host {
				continue
			}
			if _, ok := visited[link]; !ok {
				frontier = append(frontier, link)
			}
		}
	}

	snap.PagesCrawled = len(snap.Pages)
	snap.CrawlDurationMs = time.Since(start).Milliseconds()
	return snap, nil
}

// fetchPage fetches and extracts one URL. Failures come back as a page
// record with status 0 and the error message; they never abort the run.
func (c *Crawler) fetchPage(ctx context.Context, u string) (models.PageRecord, []string) {
	fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	if err := c.limiter.Wait(fctx); err != nil {
		return models.PageRecord{URL: u, Error: err.Error()}, nil
	}
	status, body, ct, finalURL, err := c.client.Fetch(fctx, u)
	if err != nil {
		c.log.Warnf("fetch %s: %v", u, err)
		return models.PageRecord{URL: u, Error: err.Error()}, nil
	}

	rec := models.PageRecord{URL: u, StatusCode: status}
	if !isHTML(ct) || len(body) == 0 {
		return rec, nil
	}

	base, err := url.Parse(finalURL)
	if err != nil {
		base, _ = url.Parse(u)
	}
	page, links, err := extractor.Extract(bytes.NewReader(body), ct, base)
	if err != nil {
		c.log.Warnf("extract %s: %v", u, err)
		return rec, nil
	}
	page.URL = u
	page.StatusCode = status
	return page, links
}

// probeRobots is the full extent of crawl politeness here: an existence
// check on /robots.txt, plus sitemap discovery from its Sitemap lines
// with a /sitemap.xml probe as fallback.
func (c *Crawler) probeRobots(ctx context.Context, seedURL *url.URL) (bool, []string) {
	sitemaps := []string{}
	robotsURL := seedURL.Scheme + "://" + seedURL.Host + "/robots.txt"

	fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	status, body, _, _, err := c.client.Fetch(fctx, robotsURL)
	cancel()
	exists := err == nil && status == 200

	if exists {
		sc := bufio.NewScanner(bytes.NewReader(body))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if len(line) >= 8 && strings.EqualFold(line[:8], "sitemap:") {
				if sm := strings.TrimSpace(line[8:]); sm != "" {
					sitemaps = append(sitemaps, sm)
				}
			}
		}
	}

	if len(sitemaps) == 0 {
		smURL := seedURL.Scheme + "://" + seedURL.Host + "/sitemap.xml"
		fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
		status, _, _, _, err := c.client.Fetch(fctx, smURL)
		cancel()
		if err == nil && status == 200 {
			sitemaps = append(sitemaps, smURL)
		}
	}
	return exists, sitemaps
}

func isHTML(contentType string) bool {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "" {
		// some servers omit the header; assume html and let extraction decide
		return true
	}
	return strings.Contains(mediaType, "text/html") || strings.Contains(mediaType, "application/xhtml+xml")
}
