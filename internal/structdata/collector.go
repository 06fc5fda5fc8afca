// Package structdata is the second extraction pass: it refetches every
// page the crawl saw with status 200 and rebuilds its structured-data
// blocks as separate typed entries, then mines a site-level entity list
// from publisher and author metadata.
package structdata

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"geoaudit/internal/extractor"
	"geoaudit/internal/models"
	"geoaudit/pkg/logger"
)

// Fetcher is the slice of the HTTP client this pass needs.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (int, []byte, string, string, error)
}

type Collector struct {
	client       Fetcher
	log          *logger.Logger
	fetchTimeout time.Duration
}

func New(client Fetcher, log *logger.Logger, fetchTimeout time.Duration) *Collector {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Collector{client: client, log: log, fetchTimeout: fetchTimeout}
}

// Collect enriches snap in place and returns it. Pages that did not
// fetch cleanly (status != 200) are left untouched. A fetch failure
// during this pass empties that page's structured data and moves on;
// one bad page never aborts the batch.
func (c *Collector) Collect(ctx context.Context, snap *models.Snapshot) *models.Snapshot {
	seen := map[string]struct{}{}
	for _, e := range snap.KeyEntities {
		seen[e.Name] = struct{}{}
	}

	for i := range snap.Pages {
		page := &snap.Pages[i]
		if page.StatusCode != 200 {
			continue
		}

		fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		status, body, _, _, err := c.client.Fetch(fctx, page.URL)
		cancel()
		if err != nil || status != 200 {
			c.log.Warnf("structured-data pass %s: refetch failed", page.URL)
			page.StructuredData = []models.StructuredData{}
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			page.StructuredData = []models.StructuredData{}
			continue
		}

		page.StructuredData = extractor.ExtractStructuredData(doc)

		for _, ent := range pageEntities(doc, page.StructuredData, page.URL) {
			if _, ok := seen[ent.Name]; ok {
				continue
			}
			seen[ent.Name] = struct{}{}
			snap.KeyEntities = append(snap.KeyEntities, ent)
		}
	}
	return snap
}

// pageEntities mines entity names from one page: JSON-LD @type holders,
// publishers and authors, the OpenGraph site name, and the author meta
// tag. Deduplication by exact name happens in the caller.
func pageEntities(doc *goquery.Document, blocks []models.StructuredData, pageURL string) []models.Entity {
	var out []models.Entity
	add := func(name, source string) {
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, models.Entity{Name: name, Source: source, Page: pageURL})
		}
	}

	for _, b := range blocks {
		if b.Schema != "json-ld" {
			continue
		}
		m, ok := b.Raw.(map[string]any)
		if !ok {
			continue
		}
		switch b.Type {
		case "Organization", "Corporation", "Person":
			if name, ok := m["name"].(string); ok {
				add(name, "json-ld")
			}
		}
		for _, field := range []string{"publisher", "author"} {
			for _, name := range namesOf(m[field]) {
				add(name, "json-ld")
			}
		}
	}

	if siteName := doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""); siteName != "" {
		add(siteName, "opengraph")
	}
	if author := doc.Find(`meta[name="author"]`).AttrOr("content", ""); author != "" {
		add(author, "meta")
	}
	return out
}

// namesOf digs the name(s) out of a JSON-LD publisher/author value,
// which may be a string, an object, or an array of either.
func namesOf(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return []string{name}
		}
	case []any:
		var names []string
		for _, item := range t {
			names = append(names, namesOf(item)...)
		}
		return names
	}
	return nil
}
