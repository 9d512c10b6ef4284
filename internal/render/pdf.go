package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/veermshah/congruency/internal/model"
)

// PageWidthMM is the fixed output page width (A4).
const PageWidthMM = 210

// ErrEmptyContent is returned when there is nothing to render; the export
// must not proceed and must not produce an upload.
var ErrEmptyContent = model.NewError(model.KindValidation, "content is empty", nil)

// PageHeightMM computes the proportional page height for a source image of
// the given pixel dimensions at the fixed page width.
func PageHeightMM(srcPixelWidth, srcPixelHeight int) float64 {
	return math.Round(float64(srcPixelHeight) * PageWidthMM / float64(srcPixelWidth))
}

// PDFRenderer rasterizes contract text into a page image and packages it as
// a single-page PDF. Output bytes are not guaranteed identical across runs;
// the layout is, for identical text.
type PDFRenderer struct {
	widthPx  int
	marginPx int
	face     font.Face
}

// NewPDFRenderer creates a renderer with A4-proportioned defaults.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{
		widthPx:  1240, // A4 width at ~150dpi
		marginPx: 60,
		face:     basicfont.Face7x13,
	}
}

// Render produces the single-page PDF for the given text.
func (r *PDFRenderer) Render(text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	img := r.rasterize(normalize(text))

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	heightMM := PageHeightMM(srcW, srcH)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: PageWidthMM, Ht: heightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opt, &pngBuf)
	pdf.ImageOptions("page", 0, 0, PageWidthMM, heightMM, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// rasterize draws the text line by line onto a white page image whose height
// follows the wrapped line count.
func (r *PDFRenderer) rasterize(text string) *image.RGBA {
	lineHeight := r.face.Metrics().Height.Ceil() + 3
	maxLineWidth := fixed.I(r.widthPx - 2*r.marginPx)

	measurer := &font.Drawer{Face: r.face}
	lines := wrapLines(measurer, text, maxLineWidth)

	height := len(lines)*lineHeight + 2*r.marginPx
	img := image.NewRGBA(image.Rect(0, 0, r.widthPx, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
	}
	y := r.marginPx + r.face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(r.marginPx, y)
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// wrapLines splits text on newlines and greedily wraps each paragraph at
// word boundaries to fit the line width.
func wrapLines(d *font.Drawer, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if d.MeasureString(candidate) > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// normalize converts escaped and CRLF line breaks to plain newlines so the
// rendered layout matches what the editor displayed.
func normalize(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	return strings.ReplaceAll(text, "\r\n", "\n")
}
