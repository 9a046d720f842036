package main

import (
	"fmt"
	"strings"

	"lsc8/pkg/grid"
)

const bytesPerRow = 16

// viewer holds an assembled image and the scroll state of the hex view.
type viewer struct {
	image     []byte
	sourceMap map[uint16]int
	origin    int
	top       int // first visible row
	cursor    int // selected row
	rows      int // visible rows
}

func newViewer(image []byte, sourceMap map[uint16]int, origin, rows int) *viewer {
	return &viewer{image: image, sourceMap: sourceMap, origin: origin, rows: rows}
}

func (v *viewer) totalRows() int {
	return grid.Rows(len(v.image), bytesPerRow)
}

// move shifts the cursor by delta rows, keeping it visible.
func (v *viewer) move(delta int) {
	last := v.totalRows() - 1
	v.cursor = min(max(v.cursor+delta, 0), max(last, 0))
	if v.cursor < v.top {
		v.top = v.cursor
	}
	if v.cursor >= v.top+v.rows {
		v.top = v.cursor - v.rows + 1
	}
}

// row renders one row as its address followed by the hex bytes.
func (v *viewer) row(r int) string {
	start := r * bytesPerRow
	end := min(start+bytesPerRow, len(v.image))

	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X ", v.origin+start)
	for i := start; i < end; i++ {
		x, _ := grid.GetGridCoords(i, bytesPerRow)
		if x == bytesPerRow/2 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, " %02X", v.image[i])
	}
	return sb.String()
}

// visible returns the rendered rows currently on screen.
func (v *viewer) visible() []string {
	var out []string
	for r := v.top; r < min(v.top+v.rows, v.totalRows()); r++ {
		out = append(out, v.row(r))
	}
	return out
}

// sourceLine returns the source line that emitted the byte at index, looking
// back to the start of the emitting line.
func (v *viewer) sourceLine(index int) (int, bool) {
	if v.sourceMap == nil {
		return 0, false
	}
	for i := index; i >= 0; i-- {
		if line, ok := v.sourceMap[uint16(v.origin+i)]; ok {
			return line, true
		}
	}
	return 0, false
}

func (v *viewer) status() string {
	if len(v.image) == 0 {
		return "empty image"
	}
	index := v.cursor * bytesPerRow
	s := fmt.Sprintf("%04X  %d bytes", v.origin+index, len(v.image))
	if line, ok := v.sourceLine(index); ok {
		s += fmt.Sprintf("  line %d", line)
	}
	return s
}
