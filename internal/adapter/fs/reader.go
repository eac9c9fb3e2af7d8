package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"docsqa/internal/domain"
)

// Reader loads a corpus file as one document of plain text. Markdown is
// reduced to its text content and PDF pages to their extracted text; any
// other file is read as-is.
type Reader struct {
	markdown goldmark.Markdown
}

func NewReader() *Reader {
	return &Reader{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *Reader) ReadDocument(path string) (domain.Document, error) {
	var (
		body string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		body, err = readPDF(path)
	case ".md", ".markdown":
		body, err = r.readMarkdown(path)
	default:
		body, err = ReadFile(path)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.Document{Path: path, Text: body}, nil
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Reader) readMarkdown(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return MarkdownText(r.markdown, source), nil
}

// MarkdownText returns the text content of a markdown document with one
// line per block.
func MarkdownText(md goldmark.Markdown, source []byte) string {
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	endLine := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				endLine()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
