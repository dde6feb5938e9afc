// Package layout computes grid geometry for a number of items, a size mode
// and a viewport.
package layout

import "math"

// PickerSizeFactor is the picker's size relative to one grid cell.
const PickerSizeFactor = 1.0 / 3.0

// spotlightSpan is the width and height in cells of the spotlighted item.
const spotlightSpan = 2

// Spec is the derived geometry of the grid and of the position picker.
// Pixel values are zero when the viewport is unknown.
type Spec struct {
	Mode         SizeMode `json:"mode"`
	Count        int      `json:"count"`
	Columns      int      `json:"columns"`
	Rows         int      `json:"rows"`
	RowsOnScreen int      `json:"rowsOnScreen"`
	FeatureSpan  int      `json:"featureSpan"`
	CellWidth    float64  `json:"cellWidth"`
	CellHeight   float64  `json:"cellHeight"`
	GridWidth    float64  `json:"gridWidth"`
	GridHeight   float64  `json:"gridHeight"`
	PickerWidth  float64  `json:"pickerWidth"`
	PickerHeight float64  `json:"pickerHeight"`
}

// Compute derives the layout for n items. It has no side effects, so equal
// inputs always give equal output.
func Compute(n int, mode SizeMode, viewportW, viewportH float64) Spec {
	if n < 0 {
		n = 0
	}
	if _, err := ParseSizeMode(string(mode)); err != nil {
		mode = DefaultSizeMode
	}

	cells, span := n, 1
	if mode == Spotlight && n > 0 {
		cells, span = n+spotlightSpan*spotlightSpan-1, spotlightSpan
	}

	cols := Columns(cells, mode)
	spec := Spec{
		Mode:         mode,
		Count:        n,
		Columns:      cols,
		Rows:         max(ceilDiv(cells, cols), cols),
		RowsOnScreen: cols,
		FeatureSpan:  span,
	}

	if viewportW <= 0 || viewportH <= 0 {
		return spec
	}

	spec.GridWidth = viewportW
	spec.CellWidth = math.Floor(viewportW / float64(cols))
	spec.CellHeight = math.Floor(viewportH / float64(spec.RowsOnScreen))
	if n == 0 {
		return spec
	}

	totalRows := max(ceilDiv(cells, spec.RowsOnScreen), spec.RowsOnScreen)
	spec.GridHeight = spec.CellHeight * float64(totalRows)
	spec.PickerWidth, spec.PickerHeight = pickerSize(spec)
	return spec
}

// Columns returns the column count for the given number of cells.
func Columns(cells int, mode SizeMode) int {
	if k := mode.Fixed(); k > 0 {
		return k
	}
	cols := int(math.Ceil(math.Sqrt(float64(cells))))
	if mode == Spotlight {
		cols = max(cols, spotlightSpan)
	}
	return max(cols, 1)
}

// pickerSize keeps the picker at the grid's aspect ratio and small enough to
// fit inside one cell.
func pickerSize(s Spec) (width, height float64) {
	if s.CellHeight <= 0 || s.GridHeight <= 0 {
		return 0, 0
	}
	if s.CellWidth/s.CellHeight < s.GridWidth/s.GridHeight {
		width = math.Floor(s.CellWidth * PickerSizeFactor)
		height = width / s.GridWidth * s.GridHeight
		return width, height
	}
	height = math.Floor(s.CellHeight * PickerSizeFactor)
	width = height / s.GridHeight * s.GridWidth
	return width, height
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
