package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// tab10 is the ten-colour categorical palette linkage groups cycle through.
var tab10 = mustPalette(
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
)

var (
	pointGrey    = mustColor("#808080")
	boxStroke    = mustColor("#3f3f3f")
	thresholdRed = mustColor("#d62728")
	medianStroke = mustColor("#000000")
)

func seriesColor(i int) drawing.Color {
	return tab10[i%len(tab10)]
}

func colorFromCode(colorCode string) (drawing.Color, error) {
	colorCode = strings.ReplaceAll(colorCode, "#", "")

	if len(colorCode) != 6 {
		return drawing.Color{}, fmt.Errorf("color code %q is not of the form #rrggbb", colorCode)
	}

	// Parse each channel
	r, err := strconv.ParseUint(colorCode[0:2], 16, 8)
	if err != nil {
		return drawing.Color{}, err
	}
	g, err := strconv.ParseUint(colorCode[2:4], 16, 8)
	if err != nil {
		return drawing.Color{}, err
	}
	b, err := strconv.ParseUint(colorCode[4:6], 16, 8)
	if err != nil {
		return drawing.Color{}, err
	}

	return drawing.Color{
		R: uint8(r),
		G: uint8(g),
		B: uint8(b),
		A: 255,
	}, nil
}

func mustColor(code string) drawing.Color {
	c, err := colorFromCode(code)
	if err != nil {
		panic(err)
	}

	return c
}

func mustPalette(codes ...string) []drawing.Color {
	out := make([]drawing.Color, 0, len(codes))
	for _, code := range codes {
		out = append(out, mustColor(code))
	}

	return out
}
