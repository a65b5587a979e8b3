package certificate

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

func newGame(t *testing.T, c *activity.Certificate) (*Game, *dom.Document, *int) {
	t.Helper()
	doc := dom.NewDocument()
	doc.Mount("activity-cert")
	done := 0
	cfg := &activity.Config{ID: "cert", Type: activity.TypeCertificate, Title: "Your certificate", Certificate: c}
	g := New(cfg, "activity-cert", activity.Env{
		Doc:        doc,
		Scheduler:  eventloop.NewManual(),
		OnComplete: func(activity.Completion) { done++ },
	})
	g.Render()
	return g, doc, &done
}

func TestDrawProducesPNG(t *testing.T) {
	out, err := Draw(Sheet{Name: "Ana María", Signature: "Ms. Ruiz", Width: 600, Height: 425})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 425 {
		t.Errorf("size = %v", b)
	}
}

func TestOversizedSheetClamped(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	doc := dom.NewDocument()
	doc.Mount("activity-cert")
	cfg := &activity.Config{ID: "cert", Type: activity.TypeCertificate, Certificate: &activity.Certificate{Width: 120000, Height: 300}}
	g := New(cfg, "activity-cert", activity.Env{
		Doc:       doc,
		Scheduler: eventloop.NewManual(),
		Log:       &logger.Logger{SugaredLogger: zap.New(core).Sugar()},
	})
	g.Render()

	if !g.Generate("Ana") {
		t.Fatal("generate failed")
	}
	img, err := png.Decode(bytes.NewReader(g.PNG()))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if b := img.Bounds(); b.Dx() != MaxDimension || b.Dy() != 300 {
		t.Errorf("size = %v, want %dx300", b, MaxDimension)
	}
	warned := logs.FilterMessage("certificate size clamped").FilterLevelExact(zap.WarnLevel)
	if warned.Len() != 1 {
		t.Errorf("clamp warnings = %d, want 1", warned.Len())
	}
}

func TestGenerateCompletes(t *testing.T) {
	g, doc, done := newGame(t, &activity.Certificate{Width: 400, Height: 300})
	doc.Dispatch("activity-cert", dom.Event{Kind: dom.Submit, Value: "  Ana   María "})
	if *done != 1 || !g.IsCompleted() {
		t.Fatalf("done = %d", *done)
	}
	if !strings.HasPrefix(g.DataURL(), "data:image/png;base64,") {
		t.Errorf("data url = %.40q", g.DataURL())
	}
	if g.Filename() != "certificate-ana-mar-a.png" {
		t.Errorf("filename = %q", g.Filename())
	}
	el, _ := doc.Element("activity-cert")
	if !strings.Contains(el.HTML(), `download="certificate-ana-mar-a.png"`) {
		t.Error("download link missing")
	}
	if !strings.Contains(el.HTML(), `value="Ana María"`) {
		t.Error("name should be kept in the form")
	}
}

func TestEmptyNameRejected(t *testing.T) {
	g, doc, done := newGame(t, nil)
	if g.Generate("   ") {
		t.Fatal("blank name accepted")
	}
	if *done != 0 || g.PNG() != nil {
		t.Error("nothing should be produced")
	}
	el, _ := doc.Element("activity-cert")
	if n, _ := el.CurrentNotice(); n.Kind != activity.FeedbackWarning {
		t.Errorf("notice = %+v", n)
	}
}

func TestResetClearsCertificate(t *testing.T) {
	g, _, _ := newGame(t, &activity.Certificate{Width: 300, Height: 200})
	g.Generate("Leo")
	g.Reset()
	if g.PNG() != nil || g.IsCompleted() || g.DataURL() != "" {
		t.Error("reset should clear the certificate")
	}
}
