// Package catalog holds the immutable title and agency snapshot the
// analytics engine resolves slugs and title numbers against.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ecfr_analytics/internal/ecfr"
)

// Source is the subset of ecfr.Client a catalog is built from.
type Source interface {
	Titles(ctx context.Context) (*ecfr.TitlesResponse, error)
	Agencies(ctx context.Context) ([]ecfr.Agency, error)
}

// Catalog is never mutated after Build returns, so it is safe to share.
type Catalog struct {
	titles      map[int]ecfr.TitleInfo
	agencies    map[string]ecfr.Agency
	order       []string
	lastUpdated string
}

func Build(ctx context.Context, src Source) (*Catalog, error) {
	titles, err := src.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch titles: %w", err)
	}
	agencies, err := src.Agencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch agencies: %w", err)
	}
	return New(titles.Titles, agencies, titles.Meta.Date), nil
}

// New builds a catalog from already-fetched data. An empty lastUpdated is
// replaced by the build date.
func New(titles []ecfr.TitleInfo, agencies []ecfr.Agency, lastUpdated string) *Catalog {
	c := &Catalog{
		titles:      make(map[int]ecfr.TitleInfo, len(titles)),
		lastUpdated: lastUpdated,
	}
	if c.lastUpdated == "" {
		c.lastUpdated = time.Now().UTC().Format(time.DateOnly)
	}
	for _, t := range titles {
		c.titles[t.Number] = t
	}
	flat := Flatten(agencies)
	c.agencies = make(map[string]ecfr.Agency, len(flat))
	c.order = make([]string, 0, len(flat))
	for _, a := range flat {
		c.agencies[a.Slug] = a
		c.order = append(c.order, a.Slug)
	}
	return c
}

// Flatten lists agencies and their children in pre-order. A slug already
// seen is skipped together with its subtree.
func Flatten(roots []ecfr.Agency) []ecfr.Agency {
	seen := make(map[string]struct{}, len(roots))
	out := make([]ecfr.Agency, 0, len(roots))

	stack := make([]ecfr.Agency, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[a.Slug]; dup {
			continue
		}
		seen[a.Slug] = struct{}{}
		out = append(out, a)
		for i := len(a.Children) - 1; i >= 0; i-- {
			stack = append(stack, a.Children[i])
		}
	}
	return out
}

func (c *Catalog) Title(number int) (ecfr.TitleInfo, bool) {
	t, ok := c.titles[number]
	return t, ok
}

func (c *Catalog) Agency(slug string) (ecfr.Agency, bool) {
	a, ok := c.agencies[slug]
	return a, ok
}

// Titles returns every title sorted by number.
func (c *Catalog) Titles() []ecfr.TitleInfo {
	out := make([]ecfr.TitleInfo, 0, len(c.titles))
	for _, t := range c.titles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Agencies returns every agency in flatten order.
func (c *Catalog) Agencies() []ecfr.Agency {
	out := make([]ecfr.Agency, len(c.order))
	for i, slug := range c.order {
		out[i] = c.agencies[slug]
	}
	return out
}

// LatestDate is the date the title's content is current as of.
func (c *Catalog) LatestDate(number int) (string, error) {
	t, ok := c.titles[number]
	if !ok {
		return "", fmt.Errorf("title %d not in catalog", number)
	}
	if t.UpToDateAsOf != "" {
		return t.UpToDateAsOf, nil
	}
	if t.LatestIssueDate != "" {
		return t.LatestIssueDate, nil
	}
	return "", fmt.Errorf("title %d has no content date", number)
}

func (c *Catalog) LastUpdated() string { return c.lastUpdated }

func (c *Catalog) TitleCount() int { return len(c.titles) }

func (c *Catalog) AgencyCount() int { return len(c.order) }
