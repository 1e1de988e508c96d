package site

import (
	"bytes"
	"html/template"
	"math"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// Post is a parsed content file: frontmatter fields merged with derived
// reading statistics, plus the rendered HTML body.
type Post struct {
	Fields map[string]any
	HTML   template.HTML
}

// TemplateName returns the template the post's frontmatter asks for.
func (p *Post) TemplateName() (string, bool) {
	name, ok := p.Fields["template"].(string)
	if !ok || name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, `\`, "/"), true
}

// LoadPost splits frontmatter, renders the Markdown body, and merges word
// count and reading minutes into the frontmatter fields.
func LoadPost(name string, raw []byte) (*Post, error) {
	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, sgerrors.RenderError(name, err)
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, sgerrors.RenderError(name, err)
	}

	var buf bytes.Buffer
	if err := goldmark.New().Convert(body, &buf); err != nil {
		return nil, sgerrors.RenderError(name, err)
	}

	words := countWords(body)
	fields["words"] = words
	fields["minutes"] = int(math.Round(float64(words) / 200.0))

	return &Post{
		Fields: fields,
		HTML:   template.HTML(buf.String()),
	}, nil
}

// countWords counts alphabetic tokens in the rendered text of a Markdown
// body. Tokens are whitespace-split, stripped of surrounding punctuation,
// and counted only when fully alphabetic, so inline code and numbers don't
// inflate reading time.
func countWords(body []byte) int {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	words := 0
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			words += countAlphaTokens(string(t.Segment.Value(body)))
		}
		return gmast.WalkContinue, nil
	})
	return words
}

func countAlphaTokens(s string) int {
	count := 0
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if tok == "" {
			continue
		}
		alpha := true
		for _, r := range tok {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			count++
		}
	}
	return count
}
