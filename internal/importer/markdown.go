package importer

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser turns a markdown document into a note title and body.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Parse returns the note title and the body with the title heading removed.
// The title is taken from:
//  1. the first level-1 heading
//  2. the first level-2 heading if there is no level-1 heading
//  3. the file name without extension, words capitalized
func (p *MarkdownParser) Parse(content []byte, filename string) (title, body string) {
	if len(bytes.TrimSpace(content)) == 0 {
		return titleFromFilename(filename), ""
	}

	doc := p.md.Parser().Parse(text.NewReader(content))

	heading := findTitleHeading(doc, content)
	if heading == nil {
		return titleFromFilename(filename), strings.TrimSpace(string(content))
	}

	title = headingText(heading, content)
	start, end := headingSpan(heading, content)
	body = string(content[:start]) + string(content[end:])

	return title, strings.TrimSpace(body)
}

func findTitleHeading(doc ast.Node, content []byte) *ast.Heading {
	var firstH1, firstH2 *ast.Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || headingText(heading, content) == "" {
			return ast.WalkContinue, nil
		}

		switch {
		case heading.Level == 1:
			firstH1 = heading
			return ast.WalkStop, nil
		case heading.Level == 2 && firstH2 == nil:
			firstH2 = heading
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != nil {
		return firstH1
	}
	return firstH2
}

// headingText extracts the plain text of a heading.
func headingText(heading *ast.Heading, content []byte) string {
	var sb strings.Builder

	_ = ast.Walk(heading, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// headingSpan returns the byte range of the source lines that make up the
// heading, including a setext underline.
func headingSpan(heading *ast.Heading, content []byte) (start, end int) {
	lines := heading.Lines()
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	start = bytes.LastIndexByte(content[:first.Start], '\n') + 1
	stop := last.Stop
	if stop > start && content[stop-1] == '\n' {
		stop--
	}
	end = lineEnd(content, stop)

	// Setext headings are followed by a line of '=' or '-'.
	if end < len(content) {
		next := lineEnd(content, end)
		underline := bytes.TrimSpace(content[end:next])
		if len(underline) > 0 && (isRun(underline, '=') || isRun(underline, '-')) {
			end = next
		}
	}
	return start, end
}

// lineEnd returns the offset just past the newline ending the line at pos.
func lineEnd(content []byte, pos int) int {
	if pos >= len(content) {
		return len(content)
	}
	if i := bytes.IndexByte(content[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(content)
}

func isRun(b []byte, c byte) bool {
	for _, x := range b {
		if x != c {
			return false
		}
	}
	return true
}

// titleFromFilename drops the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
