package certificate

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	DefaultWidth   = 1200
	DefaultHeight  = 850
	DefaultHeading = "Certificate of Achievement"
	DefaultBody    = "has successfully completed every activity of the course."

	// MaxDimension bounds either side of the sheet in pixels.
	MaxDimension = 4096
)

var (
	ink    = color.NRGBA{R: 0x23, G: 0x2f, B: 0x4f, A: 0xff}
	paper  = color.NRGBA{R: 0xfd, G: 0xf8, B: 0xec, A: 0xff}
	gold   = color.NRGBA{R: 0xc9, G: 0x9a, B: 0x2e, A: 0xff}
	shadow = color.NRGBA{R: 0x9c, G: 0x74, B: 0x1c, A: 0xff}
)

// Sheet is what goes on a certificate.
type Sheet struct {
	Name      string
	Heading   string
	Body      string
	Signature string
	Date      time.Time
	Width     int
	Height    int
}

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parsing regular font: %w", fontsErr)
			return
		}
		if bold, fontsErr = truetype.Parse(gobold.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parsing bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// Draw renders the sheet as a PNG.
func Draw(s Sheet) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	s.Width, s.Height = min(s.Width, MaxDimension), min(s.Height, MaxDimension)
	if s.Heading == "" {
		s.Heading = DefaultHeading
	}
	if s.Body == "" {
		s.Body = DefaultBody
	}
	w, h := float64(s.Width), float64(s.Height)
	scale := w / DefaultWidth

	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(paper)
	dc.Clear()

	drawBorder(dc, w, h, scale)

	dc.SetColor(ink)
	dc.SetFontFace(face(bold, 56*scale))
	dc.DrawStringAnchored(s.Heading, w/2, h*0.2, 0.5, 0.5)

	dc.SetFontFace(face(regular, 26*scale))
	dc.DrawStringAnchored("This certifies that", w/2, h*0.34, 0.5, 0.5)

	dc.SetColor(shadow)
	dc.SetFontFace(face(bold, 60*scale))
	dc.DrawStringAnchored(s.Name, w/2, h*0.46, 0.5, 0.5)
	nw, _ := dc.MeasureString(s.Name)
	dc.SetLineWidth(2 * scale)
	dc.DrawLine(w/2-nw/2-20*scale, h*0.51, w/2+nw/2+20*scale, h*0.51)
	dc.Stroke()

	dc.SetColor(ink)
	dc.SetFontFace(face(regular, 26*scale))
	dc.DrawStringWrapped(s.Body, w/2, h*0.6, 0.5, 0.5, w*0.65, 1.4, gg.AlignCenter)

	dc.SetFontFace(face(regular, 22*scale))
	if !s.Date.IsZero() {
		dc.DrawStringAnchored(s.Date.Format("January 2, 2006"), w*0.25, h*0.8, 0.5, 0.5)
		dc.DrawLine(w*0.14, h*0.83, w*0.36, h*0.83)
		dc.Stroke()
	}
	if s.Signature != "" {
		dc.DrawStringAnchored(s.Signature, w*0.5, h*0.8, 0.5, 0.5)
		dc.DrawLine(w*0.4, h*0.83, w*0.6, h*0.83)
		dc.Stroke()
	}

	drawSeal(dc, w*0.78, h*0.78, 80*scale)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBorder(dc *gg.Context, w, h, scale float64) {
	m := 24 * scale
	dc.SetColor(gold)
	dc.SetLineWidth(10 * scale)
	dc.DrawRectangle(m, m, w-2*m, h-2*m)
	dc.Stroke()
	dc.SetColor(ink)
	dc.SetLineWidth(2 * scale)
	inner := m + 16*scale
	dc.DrawRectangle(inner, inner, w-2*inner, h-2*inner)
	dc.Stroke()
	dc.SetColor(gold)
	for _, c := range [][2]float64{{inner, inner}, {w - inner, inner}, {inner, h - inner}, {w - inner, h - inner}} {
		dc.DrawCircle(c[0], c[1], 12*scale)
		dc.Fill()
	}
}

func drawSeal(dc *gg.Context, x, y, r float64) {
	dc.SetColor(gold)
	dc.DrawRegularPolygon(24, x, y, r, 0)
	dc.Fill()
	dc.SetColor(shadow)
	dc.DrawCircle(x, y, r*0.78)
	dc.Fill()
	dc.SetColor(gold)
	points := 5
	for i := 0; i < points*2; i++ {
		rad := r * 0.45
		if i%2 == 1 {
			rad = r * 0.2
		}
		a := float64(i)*math.Pi/float64(points) - math.Pi/2
		if i == 0 {
			dc.MoveTo(x+rad*math.Cos(a), y+rad*math.Sin(a))
			continue
		}
		dc.LineTo(x+rad*math.Cos(a), y+rad*math.Sin(a))
	}
	dc.ClosePath()
	dc.Fill()
}
