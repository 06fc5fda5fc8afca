package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"geoaudit/internal/models"
)

// ExtractStructuredData pulls every machine-readable metadata block out
// of a parsed document as separate typed entries: one per JSON-LD
// script, one merged OpenGraph entry, one merged Twitter Card entry, and
// one per microdata scope. Source order is preserved within each kind.
func ExtractStructuredData(doc *goquery.Document) []models.StructuredData {
	var out []models.StructuredData

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			// one bad block, not a bad page
			return
		}
		out = append(out, models.StructuredData{
			Schema: "json-ld",
			Type:   jsonLDType(payload),
			Raw:    payload,
		})
	})

	og := map[string]string{}
	doc.Find(`meta[property^="og:"]`).Each(func(i int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if prop != "" && content != "" {
			og[prop] = content
		}
	})
	if len(og) > 0 {
		out = append(out, models.StructuredData{Schema: "opengraph", Type: og["og:type"], Raw: og})
	}

	tw := map[string]string{}
	doc.Find(`meta[name^="twitter:"]`).Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		if name != "" && content != "" {
			tw[name] = content
		}
	})
	if len(tw) > 0 {
		out = append(out, models.StructuredData{Schema: "twitter-card", Type: tw["twitter:card"], Raw: tw})
	}

	doc.Find("[itemscope]").Each(func(i int, s *goquery.Selection) {
		itemtype := strings.TrimSpace(s.AttrOr("itemtype", ""))
		if itemtype == "" {
			return
		}
		props := map[string]any{"itemtype": itemtype}
		s.Find("[itemprop]").Each(func(j int, p *goquery.Selection) {
			name := strings.TrimSpace(p.AttrOr("itemprop", ""))
			if name == "" {
				return
			}
			if content := strings.TrimSpace(p.AttrOr("content", "")); content != "" {
				props[name] = content
			} else if t := strings.TrimSpace(p.Text()); t != "" {
				props[name] = t
			}
		})
		out = append(out, models.StructuredData{
			Schema: "microdata",
			Type:   itemtype[strings.LastIndex(itemtype, "/")+1:],
			Raw:    props,
		})
	})

	return out
}

// jsonLDType reads @type from a decoded JSON-LD payload; arrays of types
// collapse to the first entry.
func jsonLDType(payload any) string {
	m, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	switch t := m["@type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
