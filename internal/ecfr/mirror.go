package ecfr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MirrorClient serves API responses from a directory snapshot:
//
//	titles.json
//	agencies.json
//	structure/<date>/title-<n>.json
//	full/<date>/title-<n>.xml
//	full/<date>/title-<n>.<scope>-<value>.xml
//	versions/title-<n>.json
//
// Scoped full-text files are preferred when present. Version filters are
// applied on issue date only; snapshots carry no chapter attribution.
type MirrorClient struct {
	root string
}

func NewMirrorClient(root string) *MirrorClient {
	return &MirrorClient{root: root}
}

func (m *MirrorClient) Titles(ctx context.Context) (*TitlesResponse, error) {
	var out TitlesResponse
	if err := m.readJSON(ctx, &out, "titles.json"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MirrorClient) Agencies(ctx context.Context) ([]Agency, error) {
	var out struct {
		Agencies []Agency `json:"agencies"`
	}
	if err := m.readJSON(ctx, &out, "agencies.json"); err != nil {
		return nil, err
	}
	return out.Agencies, nil
}

func (m *MirrorClient) TitleXML(ctx context.Context, date string, title int, p XMLParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSegment(date); err != nil {
		return "", err
	}
	base := "title-" + strconv.Itoa(title)
	candidates := make([]string, 0, 2)
	if scope, value := p.narrowest(); scope != "" {
		if err := checkSegment(value); err != nil {
			return "", err
		}
		candidates = append(candidates, filepath.Join(m.root, "full", date, base+"."+scope+"-"+value+".xml"))
	}
	candidates = append(candidates, filepath.Join(m.root, "full", date, base+".xml"))

	var lastErr error
	for _, path := range candidates {
		raw, err := os.ReadFile(path)
		if err == nil {
			return string(raw), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("read mirror xml: %w", lastErr)
}

func (m *MirrorClient) TitleStructure(ctx context.Context, date string, title int) (*StructureNode, error) {
	var out StructureNode
	if err := m.readJSON(ctx, &out, "structure", date, "title-"+strconv.Itoa(title)+".json"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MirrorClient) Versions(ctx context.Context, title int, p VersionParams) (*VersionsResponse, error) {
	var all VersionsResponse
	if err := m.readJSON(ctx, &all, "versions", "title-"+strconv.Itoa(title)+".json"); err != nil {
		return nil, err
	}
	filtered := make([]ContentVersion, 0, len(all.ContentVersions))
	for _, v := range all.ContentVersions {
		if p.IssueDateGTE != "" && v.IssueDate < p.IssueDateGTE {
			continue
		}
		if p.IssueDateLTE != "" && v.IssueDate > p.IssueDateLTE {
			continue
		}
		if p.Part != "" && v.Part != p.Part {
			continue
		}
		if p.Section != "" && v.Identifier != p.Section {
			continue
		}
		filtered = append(filtered, v)
	}
	all.ContentVersions = filtered
	all.Meta.ResultCount = len(filtered)
	return &all, nil
}

func (m *MirrorClient) readJSON(ctx context.Context, dst any, elems ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, e := range elems {
		if err := checkSegment(e); err != nil {
			return err
		}
	}
	path := filepath.Join(append([]string{m.root}, elems...)...)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read mirror file: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// narrowest returns the most specific scope set on p.
func (p XMLParams) narrowest() (string, string) {
	switch {
	case p.Section != "":
		return "section", p.Section
	case p.Appendix != "":
		return "appendix", p.Appendix
	case p.Subpart != "":
		return "subpart", p.Subpart
	case p.Part != "":
		return "part", p.Part
	case p.Subchapter != "":
		return "subchapter", p.Subchapter
	case p.Chapter != "":
		return "chapter", p.Chapter
	case p.Subtitle != "":
		return "subtitle", p.Subtitle
	}
	return "", ""
}

// checkSegment rejects values that would leave the mirror root when used
// as a path element.
func checkSegment(v string) error {
	if v == "" || strings.ContainsAny(v, `/\`+"\x00") || strings.Contains(v, "..") {
		return fmt.Errorf("invalid mirror path element %q", v)
	}
	return nil
}
