package application

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const maxSnippetLength = 200

// RenderedBody is a blog body converted for readers
type RenderedBody struct {
	HTML    string
	Snippet string
}

// MarkdownRenderer converts blog bodies written in markdown to HTML.
type MarkdownRenderer interface {
	Render(markdown string) (*RenderedBody, error)
}

// blogLinkTransformer points links whose target is a bare blog id at that
// blog's published view. Every other destination is left as written.
type blogLinkTransformer struct {
	baseURL string
}

func (t *blogLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if link, ok := n.(*ast.Link); ok {
			if id, fragment, ok := blogLinkTarget(string(link.Destination)); ok {
				link.Destination = []byte(t.baseURL + publishedPath(id) + fragment)
			}
		}

		return ast.WalkContinue, nil
	})
}

// blogLinkTarget reports whether dest names a blog by id, as "<id>" or
// "./<id>" with an optional ".md" or ".html" suffix and "#fragment".
func blogLinkTarget(dest string) (uuid.UUID, string, bool) {
	fragment := ""
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		dest, fragment = dest[:i], dest[i:]
	}

	dest = strings.TrimPrefix(dest, "./")
	dest = strings.TrimSuffix(dest, ".md")
	dest = strings.TrimSuffix(dest, ".html")

	// uuid.Parse also accepts urn and braced forms; only the canonical one is a link target.
	if len(dest) != 36 {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(dest)
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, fragment, true
}

func publishedPath(id uuid.UUID) string {
	return "/blogs/v1/" + id.String() + "/published"
}

type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer returns a GFM renderer. Links to other blogs by id are
// resolved against baseURL; an empty baseURL leaves them site-relative.
func NewMarkdownRenderer(baseURL string) *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&blogLinkTransformer{baseURL: strings.TrimSuffix(baseURL, "/")}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &GoldmarkRenderer{md: md}
}

func (r *GoldmarkRenderer) Render(markdown string) (*RenderedBody, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &RenderedBody{
		HTML:    buf.String(),
		Snippet: extractSnippet(markdown),
	}, nil
}

// extractSnippet returns the first paragraph of prose, skipping headings,
// code fences, rules, lists and tables.
func extractSnippet(markdown string) string {
	var paragraphLines []string
	inFence := false

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if len(paragraphLines) > 0 {
				break
			}
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if trimmed == "" ||
			strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "***") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	snippet := strings.Join(paragraphLines, " ")

	runes := []rune(snippet)
	if len(runes) > maxSnippetLength {
		snippet = string(runes[:maxSnippetLength])
		if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
			snippet = snippet[:lastSpace]
		}
		snippet += "..."
	}

	return snippet
}
