package analytics

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ecfr_analytics/internal/ecfr"
)

// fakeClient serves canned eCFR responses and counts every call.
type fakeClient struct {
	mu      sync.Mutex
	calls   int
	xmlReqs []ecfr.XMLParams

	titles     []ecfr.TitleInfo
	agencies   []ecfr.Agency
	xml        map[int]string
	sectionXML map[string]string
	structures map[int]*ecfr.StructureNode
	versions   map[int][]ecfr.ContentVersion
	fail       map[int]error

	// gate, when set, holds TitleXML until it is closed or ctx ends.
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (f *fakeClient) record(p *ecfr.XMLParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if p != nil {
		f.xmlReqs = append(f.xmlReqs, *p)
	}
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClient) Titles(context.Context) (*ecfr.TitlesResponse, error) {
	f.record(nil)
	return &ecfr.TitlesResponse{Titles: f.titles, Meta: ecfr.TitlesMeta{Date: "2024-06-01"}}, nil
}

func (f *fakeClient) Agencies(context.Context) ([]ecfr.Agency, error) {
	f.record(nil)
	return f.agencies, nil
}

func (f *fakeClient) TitleXML(ctx context.Context, date string, title int, p ecfr.XMLParams) (string, error) {
	f.record(&p)
	if f.gate != nil {
		f.once.Do(func() { close(f.entered) })
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := f.fail[title]; err != nil {
		return "", err
	}
	if p.Section != "" {
		if x, ok := f.sectionXML[date+"/"+p.Section]; ok {
			return x, nil
		}
	}
	x, ok := f.xml[title]
	if !ok {
		return "", &ecfr.StatusError{Endpoint: "full", StatusCode: 404}
	}
	return x, nil
}

func (f *fakeClient) TitleStructure(_ context.Context, _ string, title int) (*ecfr.StructureNode, error) {
	f.record(nil)
	if err := f.fail[title]; err != nil {
		return nil, err
	}
	return f.structures[title], nil
}

func (f *fakeClient) Versions(_ context.Context, title int, _ ecfr.VersionParams) (*ecfr.VersionsResponse, error) {
	f.record(nil)
	if err := f.fail[title]; err != nil {
		return nil, err
	}
	return &ecfr.VersionsResponse{ContentVersions: f.versions[title]}, nil
}

func sectionNodes(n int) []*ecfr.StructureNode {
	out := make([]*ecfr.StructureNode, n)
	for i := range out {
		out[i] = &ecfr.StructureNode{Identifier: fmt.Sprintf("5.%d", i+1), Type: "section"}
	}
	return out
}

// newFakeClient describes test-agency: title 5 chapter I holds 1000 words
// over 10 sections.
func newFakeClient() *fakeClient {
	return &fakeClient{
		titles: []ecfr.TitleInfo{
			{Number: 5, Name: "Administrative Personnel", UpToDateAsOf: "2024-05-01"},
			{Number: 7, Name: "Agriculture", UpToDateAsOf: "2024-05-01"},
			{Number: 35, Name: "Reserved", Reserved: true},
		},
		agencies: []ecfr.Agency{
			{Name: "Test Agency", Slug: "test-agency", CFRReferences: []ecfr.CFRReference{{Title: 5, Chapter: "I"}}},
			{Name: "Two Title Agency", Slug: "two-title", CFRReferences: []ecfr.CFRReference{{Title: 5, Chapter: "I"}, {Title: 7, Chapter: "II"}}},
			{Name: "Broken Reference", Slug: "broken-ref", CFRReferences: []ecfr.CFRReference{{Title: 99, Chapter: "I"}}},
		},
		xml: map[int]string{
			5: "<DIV3><P>" + strings.TrimSpace(strings.Repeat("word ", 1000)) + "</P></DIV3>",
			7: "<DIV3><P>The Department of Labor shall inspect each facility.</P></DIV3>",
		},
		sectionXML: map[string]string{},
		structures: map[int]*ecfr.StructureNode{
			5: {Identifier: "5", Type: "title", Children: []*ecfr.StructureNode{
				{Identifier: "I", Type: "chapter", Children: sectionNodes(10)},
				{Identifier: "II", Type: "chapter", Children: sectionNodes(4)},
			}},
			7: {Identifier: "7", Type: "title", Children: []*ecfr.StructureNode{
				{Identifier: "II", Type: "chapter", Children: sectionNodes(2)},
			}},
		},
		versions: map[int][]ecfr.ContentVersion{},
		fail:     map[int]error{},
	}
}
