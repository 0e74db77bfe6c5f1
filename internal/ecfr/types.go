package ecfr

type TitleInfo struct {
	Number               int    `json:"number"`
	Name                 string `json:"name"`
	LatestAmendedOn      string `json:"latest_amended_on"`
	LatestIssueDate      string `json:"latest_issue_date"`
	UpToDateAsOf         string `json:"up_to_date_as_of"`
	Reserved             bool   `json:"reserved"`
	ProcessingInProgress bool   `json:"processing_in_progress,omitempty"`
}

type TitlesMeta struct {
	Date             string `json:"date"`
	ImportInProgress bool   `json:"import_in_progress"`
}

type TitlesResponse struct {
	Titles []TitleInfo `json:"titles"`
	Meta   TitlesMeta  `json:"meta"`
}

// CFRReference points an agency at a region of the corpus.
type CFRReference struct {
	Title    int    `json:"title"`
	Chapter  string `json:"chapter,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Part     string `json:"part,omitempty"`
}

type Agency struct {
	Name          string         `json:"name"`
	ShortName     string         `json:"short_name"`
	DisplayName   string         `json:"display_name"`
	SortableName  string         `json:"sortable_name"`
	Slug          string         `json:"slug"`
	Children      []Agency       `json:"children,omitempty"`
	CFRReferences []CFRReference `json:"cfr_references"`
}

type ContentVersion struct {
	Date          string `json:"date"`
	AmendmentDate string `json:"amendment_date"`
	IssueDate     string `json:"issue_date"`
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Part          string `json:"part"`
	Substantive   bool   `json:"substantive"`
	Removed       bool   `json:"removed"`
	Subpart       string `json:"subpart,omitempty"`
	Title         string `json:"title"`
	Type          string `json:"type"`
}

type VersionsMeta struct {
	Title           string `json:"title,omitempty"`
	ResultCount     int    `json:"result_count"`
	IssueDateGTE    string `json:"issue_date[gte],omitempty"`
	LatestAmendment string `json:"latest_amendment_date,omitempty"`
	LatestIssueDate string `json:"latest_issue_date,omitempty"`
}

type VersionsResponse struct {
	ContentVersions []ContentVersion `json:"content_versions"`
	Meta            VersionsMeta     `json:"meta"`
}

// StructureNode is one entry of a title's table of contents.
type StructureNode struct {
	Identifier       string           `json:"identifier"`
	Label            string           `json:"label,omitempty"`
	LabelLevel       string           `json:"label_level,omitempty"`
	LabelDescription string           `json:"label_description,omitempty"`
	Reserved         bool             `json:"reserved"`
	Type             string           `json:"type"`
	SectionRange     string           `json:"section_range,omitempty"`
	Children         []*StructureNode `json:"children,omitempty"`
}

// XMLParams narrows a full-text request to one region of a title.
type XMLParams struct {
	Subtitle   string
	Chapter    string
	Subchapter string
	Part       string
	Subpart    string
	Section    string
	Appendix   string
}

type VersionParams struct {
	IssueDateGTE string
	IssueDateLTE string
	Chapter      string
	Part         string
	Section      string
}
