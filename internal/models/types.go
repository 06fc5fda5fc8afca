package models

import "time"

// Issue severities, ordered from most to least urgent.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// StructuredData is one machine-readable metadata block found on a page.
// Schema is the block kind (json-ld, opengraph, twitter-card, microdata);
// Type carries the declared type when the block has one (e.g. Organization).
type StructuredData struct {
	Schema string `json:"schema"`
	Type   string `json:"type,omitempty"`
	Raw    any    `json:"raw,omitempty"`
}

type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt,omitempty"`
	HasAlt bool   `json:"has_alt"`
}

// PageRecord is the extracted state of a single crawled URL.
// StatusCode 0 means the fetch itself failed; Error is set in exactly
// that case and never otherwise.
type PageRecord struct {
	URL             string           `json:"url"`
	StatusCode      int              `json:"status_code"`
	Title           string           `json:"title,omitempty"`
	MetaDescription string           `json:"meta_description,omitempty"`
	H1              []string         `json:"h1,omitempty"`
	H2              []string         `json:"h2,omitempty"`
	H3              []string         `json:"h3,omitempty"`
	StructuredData  []StructuredData `json:"structured_data,omitempty"`
	Images          []Image          `json:"images,omitempty"`
	WordCount       int              `json:"word_count"`
	InternalLinks   int              `json:"internal_links"`
	ExternalLinks   int              `json:"external_links"`
	Error           string           `json:"error,omitempty"`
}

type RobotsTxt struct {
	Exists bool `json:"exists"`
}

// KeyPage is a page retained by the key-page detector, with its
// content-richness score and coarse type classification.
type KeyPage struct {
	URL   string  `json:"url"`
	Type  string  `json:"type"`
	Title string  `json:"title,omitempty"`
	Score float64 `json:"score"`
}

// Entity is a named thing mined from page content or structured data.
// Source says where it came from (url_path, title, heading, json-ld,
// opengraph, meta).
type Entity struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Page   string `json:"page,omitempty"`
}

// Snapshot is the complete captured state of one crawl run. Pages are in
// discovery order. KeyPages and KeyEntities are filled in by the
// enrichment passes, not by the crawler itself.
type Snapshot struct {
	WebsiteURL      string       `json:"website_url"`
	CrawledAt       time.Time    `json:"crawled_at"`
	CrawlDurationMs int64        `json:"crawl_duration_ms"`
	PagesCrawled    int          `json:"pages_crawled"`
	Pages           []PageRecord `json:"pages"`
	RobotsTxt       RobotsTxt    `json:"robots_txt"`
	Sitemaps        []string     `json:"sitemaps"`
	KeyPages        []KeyPage    `json:"key_pages,omitempty"`
	KeyEntities     []Entity     `json:"key_entities,omitempty"`
}

// TotalStructuredData sums structured-data blocks across all pages.
func (s *Snapshot) TotalStructuredData() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.StructuredData)
	}
	return n
}

// Issue is a single analyzer-detected deficiency. ID and Category are
// empty until the issue compiler assigns them.
type Issue struct {
	ID             string `json:"id,omitempty"`
	Category       string `json:"category,omitempty"`
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Page           string `json:"page,omitempty"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Baseline is a persisted snapshot promoted to the monitoring reference.
type Baseline struct {
	Snapshot
	BaselineCreatedAt time.Time `json:"baseline_created_at"`
	OriginalCrawledAt time.Time `json:"original_crawled_at"`
}
