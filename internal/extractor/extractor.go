// Package extractor turns raw HTML into a structured page record. It is
// a pure transformation: no network, no filesystem.
package extractor

import (
	"bytes"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"geoaudit/internal/models"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// skipped link schemes and pseudo-hrefs; these never become crawl
// candidates and are not counted as links either.
var skipHrefPrefixes = []string{"javascript:", "mailto:", "tel:"}

// Extract parses raw HTML and returns the page record (minus URL and
// status code, which the caller owns) plus the deduplicated same-host
// absolute links found on the page, in source order.
//
// The word count is an approximation: all markup is stripped, whitespace
// collapsed, and whitespace-delimited tokens counted. It is not a
// linguistic tokenizer and is not meant to be one.
//
// A malformed JSON-LD block is skipped on its own; it never drops the
// sibling blocks or the rest of the page.
func Extract(r io.Reader, contentType string, base *url.URL) (models.PageRecord, []string, error) {
	buf := new(bytes.Buffer)
	_, _ = io.Copy(buf, r)
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return models.PageRecord{}, nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return models.PageRecord{}, nil, err
	}

	rec := models.PageRecord{
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: metaDescription(doc),
		StructuredData:  ExtractStructuredData(doc),
	}

	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			rec.H1 = append(rec.H1, t)
		}
	})
	doc.Find("h2").Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			rec.H2 = append(rec.H2, t)
		}
	})
	doc.Find("h3").Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			rec.H3 = append(rec.H3, t)
		}
	})

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		rec.Images = append(rec.Images, models.Image{Src: src, Alt: alt, HasAlt: alt != ""})
	})

	internal, external := collectLinks(doc, base)
	rec.InternalLinks = len(internal)
	rec.ExternalLinks = len(external)

	// Structured data and links are read before scripts are stripped for
	// the text pass.
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Find("body").Text(), " "))
	if text != "" {
		rec.WordCount = len(strings.Fields(text))
	}

	return rec, internal, nil
}

func metaDescription(doc *goquery.Document) string {
	desc := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if desc == "" {
		desc = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}
	return desc
}

// collectLinks resolves and deduplicates every usable <a href> against
// the page's own base URL. Link counts stay independent of the crawl's
// global visited state.
func collectLinks(doc *goquery.Document, base *url.URL) (internal, external []string) {
	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		for _, p := range skipHrefPrefixes {
			if strings.HasPrefix(lower, p) {
				return
			}
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		norm := NormalizeURL(abs)
		if _, ok := seen[norm]; ok {
			return
		}
		seen[norm] = struct{}{}
		if abs.Hostname() == base.Hostname() {
			internal = append(internal, norm)
		} else {
			external = append(external, norm)
		}
	})
	return internal, external
}

// NormalizeURL strips the fragment and gives bare-host URLs a "/" path
// so the visited set never fetches the same page twice under two names.
func NormalizeURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	if c.Path == "" {
		c.Path = "/"
	}
	return c.String()
}
