// ABOUTME: Document export to markdown, standalone HTML, and PDF files.
// ABOUTME: Produces in-memory artifacts; callers decide where bytes are written.

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/render"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
	PDF      Format = "pdf"
)

// ParseFormat accepts a format name or its usual file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Artifact is an exported file ready to be written or served.
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// FrontMatter is the YAML header written ahead of exported markdown.
type FrontMatter struct {
	Title    string    `yaml:"title"`
	Created  time.Time `yaml:"created"`
	Modified time.Time `yaml:"modified"`
	Folder   string    `yaml:"folder,omitempty"`
}

// Export renders title and content in the given format.
func Export(title, content string, format Format) (*Artifact, error) {
	name := Filename(title)
	switch format {
	case Markdown:
		return &Artifact{Filename: name + ".md", MIMEType: "text/markdown", Data: []byte(content)}, nil
	case HTML:
		data, err := htmlPage(title, content)
		if err != nil {
			return nil, err
		}
		return &Artifact{Filename: name + ".html", MIMEType: "text/html", Data: data}, nil
	case PDF:
		data, err := pdfDocument(title, content)
		if err != nil {
			return nil, err
		}
		return &Artifact{Filename: name + ".pdf", MIMEType: "application/pdf", Data: data}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// ExportDocument exports a stored document. With fm set, markdown output
// starts with a YAML front matter block.
func ExportDocument(doc *models.Document, format Format, fm *FrontMatter) (*Artifact, error) {
	art, err := Export(doc.Title, doc.Content, format)
	if err != nil || format != Markdown || fm == nil {
		return art, err
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")
	sb.WriteString(doc.Content)
	art.Data = []byte(sb.String())
	return art, nil
}

// NewFrontMatter builds the header for doc; folder may be empty.
func NewFrontMatter(doc *models.Document, folder string) *FrontMatter {
	return &FrontMatter{
		Title:    doc.Title,
		Created:  doc.Created.UTC(),
		Modified: doc.Modified.UTC(),
		Folder:   folder,
	}
}

// Filename turns a title into a safe base name, "document" when blank.
func Filename(title string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name := strings.TrimSpace(replacer.Replace(title))
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	if name == "" {
		return "document"
	}
	return name
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 46em; margin: 2em auto; padding: 0 1em; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; }
pre { background: #f6f8fa; padding: 1em; overflow: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 0.3em 0.8em; }
</style>
</head>
<body class="markdown-body">
{{.Body}}
</body>
</html>
`))

func htmlPage(title, content string) ([]byte, error) {
	body, err := render.HTML(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		title = models.DefaultTitle
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)}) //nolint:gosec // body is sanitized by render.HTML
	if err != nil {
		return nil, fmt.Errorf("failed to render html page: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfDocument lays out plain text on US letter portrait with 1in margins.
func pdfDocument(title, content string) ([]byte, error) {
	text, err := render.PlainText(content)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(1, 1, 1)
	pdf.SetAutoPageBreak(true, 1)
	pdf.SetTitle(title, true)
	pdf.SetCreator("mdesk", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if strings.TrimSpace(title) != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 0.35, tr(title), "", "L", false)
		pdf.Ln(0.15)
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 0.2, tr(text), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
