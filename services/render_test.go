package services

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	got := RenderMarkdown("# Título\n\nParágrafo com **negrito** e [link](https://example.org).")
	for _, want := range []string{"<h1", "Título", "<strong>negrito</strong>", `href="https://example.org"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %s", want, got)
		}
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	got := RenderMarkdown("texto <script>alert('x')</script> final")
	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived sanitization: %s", got)
	}
	if !strings.Contains(got, "texto") || !strings.Contains(got, "final") {
		t.Errorf("surrounding text lost: %s", got)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown(""); strings.TrimSpace(got) != "" {
		t.Errorf("empty input produced %q", got)
	}
}
