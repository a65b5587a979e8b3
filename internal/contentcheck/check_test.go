package contentcheck

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/content"
)

func TestSampleHasNoProblems(t *testing.T) {
	cat, err := content.Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	var out bytes.Buffer
	problems := Run(cat, NewLineReporter(&out))
	if len(problems) != 0 {
		t.Errorf("problems: %v", problems)
	}
	if !strings.Contains(out.String(), "Content check complete") {
		t.Errorf("reporter output = %q", out.String())
	}
}

func TestProblemsReported(t *testing.T) {
	cat := content.New(content.File{
		Sections: []content.Section{{ID: "s", Activities: []string{"empty-match", "odd"}}},
		Activities: []*activity.Config{
			{ID: "empty-match", Type: activity.TypeMatching, Title: "Nothing to match"},
			{ID: "odd", Type: "crossword", Title: "Odd"},
		},
	})
	problems := Run(cat, nil)
	var text []string
	for _, p := range problems {
		text = append(text, p.String())
	}
	joined := strings.Join(text, "\n")
	for _, want := range []string{
		"empty-match: matching game has no pairs",
		"odd: activity type not implemented",
		`unknown type "crossword"`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}
