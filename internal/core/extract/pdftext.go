package extract

import (
	"math"
	"strings"

	"rsc.io/pdf"
)

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two glyphs belong to different words. The parser drops space glyphs, so
// spacing is recovered from positions.
const wordGap = 0.2

// assembleText rebuilds lines from positioned glyphs in content-stream order.
func assembleText(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			size := math.Max(prev.FontSize, g.FontSize)
			if size <= 0 {
				size = 1
			}
			switch {
			case math.Abs(g.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > size*wordGap && prev.S != " " && g.S != " ":
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}
