package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/wcharczuk/go-chart/v2"
)

// DefaultFormats are the image formats written when none are requested.
var DefaultFormats = []string{"png", "pdf", "svg"}

// Formats other than png and svg are produced from the PNG raster.
var nativeFormats = map[string]chart.RendererProvider{
	"png": chart.PNG,
	"svg": chart.SVG,
}

const jpegQuality = 95

// Pixels per millimetre when the raster is placed on a PDF page. 4 is
// roughly 100 dpi, so a 1400 pixel wide plot makes a 350mm page.
const pdfResolution = canvas.Resolution(4.0)

// ParseFormats normalizes a list of file extensions ("PNG", ".jpg", "tiff")
// and rejects any that cannot be produced. Duplicates are dropped; order is
// kept.
func ParseFormats(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), DefaultFormats...), nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, v := range requested {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v), "."))
		switch ext {
		case "":
			continue
		case "jpeg":
			ext = "jpg"
		case "tiff":
			ext = "tif"
		}

		if _, native := nativeFormats[ext]; !native && ext != "pdf" {
			if _, err := imaging.FormatFromExtension(ext); err != nil {
				return nil, fmt.Errorf("image format %q not recognized. Options include: %s", v, FormatNames())
			}
		}

		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no image formats requested")
	}

	return out, nil
}

func FormatNames() string {
	names := []string{"bmp", "gif", "jpg", "pdf", "tif"}
	for name := range nativeFormats {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// renderChart draws graph once per format and returns the encoded bytes for
// each, keyed by format.
func renderChart(graph chart.Chart, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))

	var raster []byte
	for _, format := range formats {
		if provider, native := nativeFormats[format]; native {
			buf := &bytes.Buffer{}
			if err := graph.Render(provider, buf); err != nil {
				return nil, pfx.Err(fmt.Errorf("%s: %w", format, err))
			}
			out[format] = buf.Bytes()
			continue
		}

		if raster == nil {
			buf := &bytes.Buffer{}
			if err := graph.Render(chart.PNG, buf); err != nil {
				return nil, pfx.Err(err)
			}
			raster = buf.Bytes()
		}

		var encoded []byte
		var err error
		if format == "pdf" {
			encoded, err = rasterToPDF(raster)
		} else {
			encoded, err = reencode(raster, format)
		}
		if err != nil {
			return nil, err
		}
		out[format] = encoded
	}

	return out, nil
}

// reencode converts PNG bytes into the image format named by ext.
func reencode(pngBytes []byte, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", ext, err))
	}

	img, err := imaging.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, pfx.Err(err)
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, pfx.Err(err)
	}

	return buf.Bytes(), nil
}

// rasterToPDF places PNG bytes on a single PDF page of the same aspect ratio.
func rasterToPDF(pngBytes []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, pfx.Err(err)
	}

	bounds := img.Bounds()
	widthMM := float64(bounds.Dx()) / float64(pdfResolution)
	heightMM := float64(bounds.Dy()) / float64(pdfResolution)

	buf := &bytes.Buffer{}
	doc := pdf.New(buf, widthMM, heightMM, nil)

	ctx := canvas.NewContext(doc)
	ctx.DrawImage(0, 0, img, pdfResolution)

	if err := doc.Close(); err != nil {
		return nil, pfx.Err(err)
	}

	return buf.Bytes(), nil
}
