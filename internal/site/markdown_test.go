package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPostMergesFrontmatterAndStats(t *testing.T) {
	raw := []byte(`---
title: First Post
template: post.html
---
# Heading

Some plain words here, with punctuation! And a number 42.
`)

	post, err := LoadPost("first.md", raw)
	require.NoError(t, err)

	assert.Equal(t, "First Post", post.Fields["title"])
	name, ok := post.TemplateName()
	require.True(t, ok)
	assert.Equal(t, "post.html", name)

	// "42" is not alphabetic and must not count.
	assert.Equal(t, 10, post.Fields["words"])
	assert.Equal(t, 0, post.Fields["minutes"])

	assert.Contains(t, string(post.HTML), "<h1>Heading</h1>")
	assert.NotContains(t, string(post.HTML), "title: First Post")
}

func TestLoadPostWithoutFrontmatter(t *testing.T) {
	post, err := LoadPost("plain.md", []byte("just some body text\n"))
	require.NoError(t, err)

	_, ok := post.TemplateName()
	assert.False(t, ok)
	assert.Equal(t, 4, post.Fields["words"])
}

func TestLoadPostBadFrontmatter(t *testing.T) {
	_, err := LoadPost("bad.md", []byte("---\ntitle: dangling\n"))
	assert.Error(t, err)
}

func TestTemplateNameBackslashTolerant(t *testing.T) {
	post := &Post{Fields: map[string]any{"template": `layouts\post.html`}}
	name, ok := post.TemplateName()
	require.True(t, ok)
	assert.Equal(t, "layouts/post.html", name)
}

func TestReadingMinutesRounding(t *testing.T) {
	// ~300 words should round to 2 minutes at 200 wpm.
	raw := []byte(strings.Repeat("word ", 300))
	post, err := LoadPost("long.md", raw)
	require.NoError(t, err)
	assert.Equal(t, 300, post.Fields["words"])
	assert.Equal(t, 2, post.Fields["minutes"])
}
