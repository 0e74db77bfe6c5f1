package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is a local regulation file reduced to normalized text.
type Document struct {
	Name       string
	SourcePath string
	Format     string
	Text       string
}

// ParseFile reads an eCFR XML export, a PDF print, a DOCX or a plain text
// file and normalizes it the same way API content is normalized.
func (n *Normalizer) ParseFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var text string
	switch ext {
	case ".xml":
		text, err = n.ExtractText(string(raw))
		if err != nil {
			return nil, err
		}
	case ".txt":
		text = string(raw)
	case ".docx":
		text, err = parseDOCX(raw)
		if err != nil {
			return nil, err
		}
	case ".pdf":
		text, err = parsePDF(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Document{
		Name:       name,
		SourcePath: path,
		Format:     strings.TrimPrefix(ext, "."),
		Text:       CleanText(text),
	}, nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var body *Node
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, openErr := f.Open()
		if openErr != nil {
			return "", fmt.Errorf("open document.xml: %w", openErr)
		}
		body, err = Parse(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if body == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	// Only w:t runs carry text; w:p boundaries become line breaks.
	type frame struct {
		node   *Node
		inText bool
	}
	var b strings.Builder
	stack := make([]frame, 0, len(body.Children))
	for i := len(body.Children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: body.Children[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.Name == "" {
			if f.inText {
				b.WriteString(f.node.Text)
			}
			continue
		}
		if f.node.Name == "p" && b.Len() > 0 {
			b.WriteString("\n")
		}
		inText := f.inText || f.node.Name == "t"
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], inText: inText})
		}
	}
	return b.String(), nil
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ParseError{Err: fmt.Errorf("open pdf: %w", err)}
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}
