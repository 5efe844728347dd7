// Package pdf converts the exported Markdown document to PDF by
// orchestrating external tools. The fallback chain is a data-driven list of
// renderers tried in order; a chain with no working tool is non-fatal.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// CommandRunner abstracts external tool execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Renderer converts a Markdown document to a PDF file.
type Renderer interface {
	Name() string
	Render(ctx context.Context, markdownPath, pdfPath string) error
}

// Pandoc renders Markdown to PDF directly through pandoc. It is tried first
// because it understands Markdown natively and formats richer output.
type Pandoc struct {
	Runner CommandRunner
}

// NewPandoc creates a Pandoc renderer with a real command runner.
func NewPandoc() *Pandoc {
	return &Pandoc{Runner: ExecRunner{}}
}

func (p *Pandoc) Name() string { return "pandoc" }

func (p *Pandoc) Render(ctx context.Context, markdownPath, pdfPath string) error {
	return p.Runner.Run(ctx, "pandoc",
		markdownPath,
		"-o", pdfPath,
		"--pdf-engine=xelatex",
		"-V", "geometry:margin=1in",
		"-V", "linkcolor=blue",
		"-V", "urlcolor=blue",
	)
}

// Wkhtmltopdf renders PDF from HTML. Since the tool does not accept
// Markdown, the document first goes through a deliberately minimal,
// lossy Markdown-to-HTML substitution: headers and line breaks only.
// Lists, tables, emphasis, and code blocks are left as plain text.
// Upgrading this conversion would silently change the fallback output,
// so it stays frozen.
type Wkhtmltopdf struct {
	Runner CommandRunner
}

// NewWkhtmltopdf creates a Wkhtmltopdf renderer with a real command runner.
func NewWkhtmltopdf() *Wkhtmltopdf {
	return &Wkhtmltopdf{Runner: ExecRunner{}}
}

func (w *Wkhtmltopdf) Name() string { return "wkhtmltopdf" }

func (w *Wkhtmltopdf) Render(ctx context.Context, markdownPath, pdfPath string) error {
	md, err := os.ReadFile(markdownPath)
	if err != nil {
		return fmt.Errorf("reading markdown: %w", err)
	}

	htmlPath := strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".html"
	if err := os.WriteFile(htmlPath, []byte(markdownToHTML(string(md))), 0o644); err != nil {
		return fmt.Errorf("writing intermediate HTML: %w", err)
	}
	defer os.Remove(htmlPath)

	return w.Runner.Run(ctx, "wkhtmltopdf", htmlPath, pdfPath)
}

// htmlHeader wraps the converted body in a minimal styled document.
const htmlHeader = `<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
img { max-width: 100%; height: auto; }
pre { background: #f4f4f4; padding: 10px; overflow-x: auto; }
code { background: #f4f4f4; padding: 2px 4px; }
</style>
</head>
<body>
`

// markdownToHTML performs the minimal header/line-break substitution.
func markdownToHTML(md string) string {
	s := strings.ReplaceAll(md, "# ", "<h1>")
	s = strings.ReplaceAll(s, "\n## ", "</h1>\n<h2>")
	s = strings.ReplaceAll(s, "\n### ", "</h2>\n<h3>")
	s = strings.ReplaceAll(s, "\n", "<br>\n")
	return htmlHeader + s + "</body></html>"
}

// Chain tries each renderer in order against the given Markdown file and
// returns the path of the produced PDF. Both tools failing reports ok=false
// and the caller treats the Markdown stage as the final result.
func Chain(ctx context.Context, renderers []Renderer, markdownPath string, log logrus.FieldLogger) (string, bool) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	pdfPath := strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".pdf"

	for _, r := range renderers {
		if err := r.Render(ctx, markdownPath, pdfPath); err != nil {
			log.Warnf("%s renderer failed: %v", r.Name(), err)
			continue
		}
		return pdfPath, true
	}

	return "", false
}

// DefaultChain is the production fallback order.
func DefaultChain() []Renderer {
	return []Renderer{NewPandoc(), NewWkhtmltopdf()}
}
