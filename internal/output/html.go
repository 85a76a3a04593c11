package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// HTMLFormatter renders the markdown report converted to HTML and wrapped in
// a self-contained page.
type HTMLFormatter struct{}

var htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (f *HTMLFormatter) Format(w io.Writer, result *types.ScanResult) error {
	var body bytes.Buffer
	if err := (&MarkdownFormatter{}).Format(&body, result); err != nil {
		return err
	}
	return f.renderPage(w, "Readiness report: "+result.Tool, body.Bytes())
}

func (f *HTMLFormatter) FormatBatch(w io.Writer, batch *types.BatchResult) error {
	var body bytes.Buffer
	if err := (&MarkdownFormatter{}).FormatBatch(&body, batch); err != nil {
		return err
	}
	return f.renderPage(w, "Readiness report", body.Bytes())
}

func (f *HTMLFormatter) renderPage(w io.Writer, title string, markdown []byte) error {
	var converted bytes.Buffer
	if err := htmlMarkdown.Convert(markdown, &converted); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}

	if _, err := fmt.Fprintf(w, pageHeader, title); err != nil {
		return err
	}
	if _, err := w.Write(converted.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, pageFooter)
	return err
}

const pageHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 920px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
table { border-collapse: collapse; width: 100%%; margin: 1rem 0; }
th, td { border: 1px solid #d1d9e0; padding: 6px 13px; text-align: left; }
th { background: #f6f8fa; }
code { background: #f6f8fa; padding: 2px 4px; border-radius: 4px; font-size: 85%%; }
blockquote { border-left: 4px solid #d1d9e0; margin: 0; padding: 0 1em; color: #59636e; }
hr { border: 0; border-top: 1px solid #d1d9e0; margin: 2rem 0; }
</style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
