package calview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell is one terminal column of one row. style indexes canvas.styles;
// zero is unstyled.
type cell struct {
	r     rune
	style int
}

// canvas is a fixed-size character grid that task blocks are painted onto
// before being rendered row by row.
type canvas struct {
	width  int
	height int
	cells  [][]cell
	styles []lipgloss.Style
}

func newCanvas(width, height int) *canvas {
	width = max(width, 0)
	height = max(height, 0)
	cells := make([][]cell, height)
	for y := range cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		cells[y] = row
	}
	return &canvas{
		width:  width,
		height: height,
		cells:  cells,
		styles: []lipgloss.Style{lipgloss.NewStyle()},
	}
}

// addStyle registers a style and returns its index.
func (c *canvas) addStyle(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// set writes a single cell, ignoring coordinates outside the canvas.
func (c *canvas) set(x, y int, r rune, style int) {
	if c.inBounds(x, y) {
		c.cells[y][x] = cell{r: r, style: style}
	}
}

// fill paints a rectangle.
func (c *canvas) fill(x, y, w, h int, r rune, style int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.set(col, row, r, style)
		}
	}
}

// text writes s starting at (x, y), truncated to maxWidth columns with an
// ellipsis. Runes wider than one column are replaced so the grid stays
// aligned.
func (c *canvas) text(x, y, maxWidth int, s string, style int) {
	if maxWidth <= 0 {
		return
	}
	runes := []rune(s)
	if len(runes) > maxWidth {
		if maxWidth == 1 {
			runes = runes[:1]
		} else {
			runes = append(runes[:maxWidth-1:maxWidth-1], '…')
		}
	}
	for i, r := range runes {
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		c.set(x+i, y, r, style)
	}
}

// Render returns the styled rows joined by newlines. Adjacent cells with
// the same style are rendered in one run.
func (c *canvas) Render() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			var run strings.Builder
			for ; x < len(row) && row[x].style == style; x++ {
				run.WriteRune(row[x].r)
			}
			if style == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles[style].Render(run.String()))
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Plain returns the canvas text without styling.
func (c *canvas) Plain() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		rs := make([]rune, len(row))
		for x, cl := range row {
			rs[x] = cl.r
		}
		lines[y] = string(rs)
	}
	return strings.Join(lines, "\n")
}
