package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/mkaran/cvsift/internal/document"
)

// TextParser handles plain text files. Line boundaries are preserved
// because the header-name heuristic depends on them.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &document.Source{
		Title: titleFromFilename(filename),
		Text:  strings.TrimRight(sb.String(), "\n"),
	}, nil
}
