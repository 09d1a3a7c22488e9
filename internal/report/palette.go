package report

// palette is the fixed slice-color cycle for the pie view, in the order
// the original dashboard shipped them.
var palette = []string{
	"#00d0ff", "#008fb3", "#00b894", "#6c5ce7", "#fd79a8", "#e17055",
	"#00cec9", "#fab1a0", "#74b9ff", "#a29bfe", "#55efc4", "#ffeaa7",
}

// SliceColor returns the color for slice i, cycling when categories
// outnumber the palette. Distinct colors are only guaranteed up to the
// palette size.
func SliceColor(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// PaletteSize reports how many distinct colors the cycle carries.
func PaletteSize() int {
	return len(palette)
}
