package services

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	newsMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	newsPolicy   = bluemonday.UGCPolicy()
)

// RenderMarkdown converts a news body from Markdown to sanitized HTML.
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := newsMarkdown.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return newsPolicy.Sanitize(buf.String())
}
