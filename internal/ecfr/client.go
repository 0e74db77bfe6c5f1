package ecfr

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Client is the read surface of the eCFR document API.
type Client interface {
	Titles(ctx context.Context) (*TitlesResponse, error)
	Agencies(ctx context.Context) ([]Agency, error)
	TitleXML(ctx context.Context, date string, title int, p XMLParams) (string, error)
	TitleStructure(ctx context.Context, date string, title int) (*StructureNode, error)
	Versions(ctx context.Context, title int, p VersionParams) (*VersionsResponse, error)
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return fmt.Sprintf("ecfr %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("ecfr %s: status %d: %s", e.Endpoint, e.StatusCode, body)
}

func (p XMLParams) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	set("subtitle", p.Subtitle)
	set("chapter", p.Chapter)
	set("subchapter", p.Subchapter)
	set("part", p.Part)
	set("subpart", p.Subpart)
	set("section", p.Section)
	set("appendix", p.Appendix)
	return v
}

func (p VersionParams) values() url.Values {
	v := url.Values{}
	if p.IssueDateGTE != "" {
		v.Set("issue_date[gte]", p.IssueDateGTE)
	}
	if p.IssueDateLTE != "" {
		v.Set("issue_date[lte]", p.IssueDateLTE)
	}
	if p.Chapter != "" {
		v.Set("chapter", p.Chapter)
	}
	if p.Part != "" {
		v.Set("part", p.Part)
	}
	if p.Section != "" {
		v.Set("section", p.Section)
	}
	return v
}
