package documents

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	goldmarktext "github.com/yuin/goldmark/text"
)

const fileTypeMarkdown = "md"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func fileType(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
}

func (s *Service) validateFile(fileName string, content []byte) error {
	if strings.TrimSpace(fileName) == "" {
		return newError(KindInvalidFile, "file name is empty", nil)
	}

	if _, ok := s.allowedFileTypes[fileType(fileName)]; !ok {
		return newError(KindInvalidFile, fmt.Sprintf("unsupported file type %q, allowed: %s", fileType(fileName), strings.Join(s.allowedFileTypesList(), ", ")), nil)
	}

	if len(content) == 0 {
		return newError(KindInvalidFile, "file is empty", nil)
	}

	if int64(len(content)) > s.maxFileSize {
		return newError(KindInvalidFile, fmt.Sprintf("file is larger than %d bytes", s.maxFileSize), nil)
	}

	return nil
}

// extractText returns the searchable text of an upload. Markdown is reduced
// to the text of its blocks, one block per line.
func extractText(fileType string, content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if !utf8.Valid(content) {
		return "", newError(KindTextExtraction, "file is not valid UTF-8 text", nil)
	}

	text := string(content)
	if fileType == fileTypeMarkdown {
		var err error
		if text, err = extractMarkdown(content); err != nil {
			return "", newError(KindTextExtraction, "could not parse markdown", err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", newError(KindTextExtraction, "file contains no text", nil)
	}

	return text, nil
}

type markdownText struct {
	strings.Builder
}

func (t *markdownText) endLine() {
	if t.Len() == 0 {
		return
	}
	if text := t.String(); text[len(text)-1] != '\n' {
		t.WriteByte('\n')
	}
}

func extractMarkdown(source []byte) (string, error) {
	document := goldmark.New().Parser().Parse(goldmarktext.NewReader(source))

	var text markdownText
	err := ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if node.Type() == ast.TypeBlock {
				text.endLine()
			}
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Text:
			text.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				text.endLine()
			}
		case *ast.String:
			text.Write(n.Value)
		case *ast.AutoLink:
			text.Write(n.Label(source))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)
				text.Write(segment.Value(source))
			}
			text.endLine()
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimRight(text.String(), "\n"), nil
}

// readFile reads at most limit bytes from path. Larger files are rejected
// rather than truncated.
func readFile(path string, limit int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(content)) > limit {
		return nil, fmt.Errorf("file is larger than %d bytes", limit)
	}

	return content, nil
}
