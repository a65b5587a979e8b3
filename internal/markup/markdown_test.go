package markup

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	r := New()
	out := string(r.Render("Match each **word** with its picture.\n\n- one\n- two"))
	if !strings.Contains(out, "<strong>word</strong>") {
		t.Errorf("expected bold markup, got %q", out)
	}
	if !strings.Contains(out, "<li>one</li>") {
		t.Errorf("expected list items, got %q", out)
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	r := New()
	out := string(r.Render("<script>alert(1)</script>"))
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML should not pass through, got %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := New().Render(""); got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}
