package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Competitor is the normalized form of a configured competitor. Input
// files may carry a bare domain string or a {domain, brand_name} object;
// both decode into this struct so nothing downstream has to care.
type Competitor struct {
	Domain    string `json:"domain"`
	BrandName string `json:"brand_name,omitempty"`
}

func (c *Competitor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Domain = strings.TrimSpace(s)
		c.BrandName = ""
		return nil
	}
	type alias Competitor
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("competitor entry must be a string or an object: %w", err)
	}
	*c = Competitor(a)
	if c.Domain == "" {
		return fmt.Errorf("competitor entry missing domain")
	}
	return nil
}

// Customer is the audited customer record. Either Domain or WebsiteURL
// may be present in the input file; Normalize resolves both.
type Customer struct {
	Domain        string       `json:"domain,omitempty"`
	WebsiteURL    string       `json:"website_url,omitempty"`
	BrandName     string       `json:"brand_name,omitempty"`
	TargetQueries []string     `json:"target_queries,omitempty"`
	Competitors   []Competitor `json:"competitors,omitempty"`
}

// Normalize fills Domain from WebsiteURL (and vice versa) so callers can
// rely on both being set.
func (c *Customer) Normalize() error {
	if c.Domain == "" && c.WebsiteURL == "" {
		return fmt.Errorf("customer record needs domain or website_url")
	}
	if c.WebsiteURL == "" {
		c.WebsiteURL = "https://" + c.Domain
	}
	if c.Domain == "" {
		u, err := url.Parse(c.WebsiteURL)
		if err != nil || u.Hostname() == "" {
			return fmt.Errorf("customer website_url %q is not a valid URL", c.WebsiteURL)
		}
		c.Domain = u.Hostname()
	}
	return nil
}
