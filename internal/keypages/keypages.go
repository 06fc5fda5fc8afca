// Package keypages ranks crawled pages by content richness, classifies
// the top ones by type, and mines candidate entities from URLs, titles,
// and headings.
package keypages

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"geoaudit/internal/models"
)

const maxKeyPages = 10

// Extensions that never hold key-page content.
var assetExtensions = []string{".css", ".js", ".ico", ".png", ".jpg", ".gif"}

// Page types in classification precedence order after the root check.
var typeMarkers = []struct {
	marker   string
	pageType string
}{
	{"/blog", "blog"},
	{"/about", "about"},
	{"/contact", "contact"},
	{"/product", "product"},
	{"/service", "product"},
}

type Result struct {
	KeyPages []models.KeyPage `json:"key_pages"`
	Entities []models.Entity  `json:"key_entities"`
}

// Detect filters out failed fetches and asset URLs, scores the rest,
// keeps the top ten by descending score, classifies them, and mines
// entities from the retained pages.
func Detect(pages []models.PageRecord) Result {
	var candidates []models.PageRecord
	for _, p := range pages {
		if p.StatusCode != 200 || IsAsset(p.URL) {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Score(candidates[i]) > Score(candidates[j])
	})
	if len(candidates) > maxKeyPages {
		candidates = candidates[:maxKeyPages]
	}

	res := Result{}
	for _, p := range candidates {
		res.KeyPages = append(res.KeyPages, models.KeyPage{
			URL:   p.URL,
			Type:  Classify(p.URL),
			Title: p.Title,
			Score: Score(p),
		})
	}
	res.Entities = mineEntities(candidates)
	return res
}

// Score is additive with each component capped, except the
// internal-link term, which is deliberately left uncapped so heavily
// linked hub pages outrank everything else.
func Score(p models.PageRecord) float64 {
	s := math.Min(float64(p.WordCount)/10, 40)
	s += float64(p.InternalLinks) * 10
	if len(p.H1) > 0 {
		s += 20
	}
	if len(p.H2) > 0 {
		s += 10
	}
	if hasRootPath(p.URL) {
		s += 15
	}
	return s
}

// Classify maps a URL to a coarse page type by substring precedence:
// the site root wins outright, then the first matching path marker.
func Classify(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "content"
	}
	path := strings.ToLower(u.Path)
	if path == "" || path == "/" {
		return "homepage"
	}
	for _, tm := range typeMarkers {
		if strings.Contains(path, tm.marker) {
			return tm.pageType
		}
	}
	return "content"
}

func IsAsset(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func hasRootPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == "" || strings.HasSuffix(u.Path, "/")
}

// Minimum token lengths per source kind. Path segments are shorter on
// average than prose words, so they get a lower floor.
const (
	minPathToken = 2
	minWordToken = 3
)

func mineEntities(pages []models.PageRecord) []models.Entity {
	seen := map[string]struct{}{}
	var out []models.Entity

	add := func(token, source, page string, minLen int) {
		token = strings.ToLower(strings.TrimSpace(token))
		if len(token) <= minLen {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		out = append(out, models.Entity{Name: token, Source: source, Page: page})
	}

	for _, p := range pages {
		if u, err := url.Parse(p.URL); err == nil {
			for _, seg := range strings.Split(u.Path, "/") {
				add(seg, "url_path", p.URL, minPathToken)
			}
		}
		for _, w := range tokenize(p.Title) {
			add(w, "title", p.URL, minWordToken)
		}
		headings := append(append([]string{}, p.H1...), p.H2...)
		for _, w := range tokenize(strings.Join(headings, " ")) {
			add(w, "heading", p.URL, minWordToken)
		}
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
