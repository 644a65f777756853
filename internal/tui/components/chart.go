package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series minimum
// and maximum, so negative values (a losing streak) still draw.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// HBar renders one labeled horizontal bar scaled against maxValue.
func HBar(label string, value, maxValue float64, labelW, barW int, color lipgloss.Color, valueText string) string {
	t := theme.Active

	filled := 0
	if maxValue > 0 && value > 0 {
		filled = int(math.Round(value / maxValue * float64(barW)))
		filled = min(max(filled, 1), barW)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
		barStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("·", barW-filled)) +
		valueStyle.Render(" "+valueText)
}

// WaterfallStep is one row of a waterfall chart. A Total row draws the
// running sum from zero instead of adding Amount.
type WaterfallStep struct {
	Label  string
	Amount float64
	Total  bool
}

// Waterfall renders steps as floating bars: each step starts where the
// previous one ended. Increases are green, decreases red and totals use the
// accent color. format renders the value column.
func Waterfall(steps []WaterfallStep, labelW, barW int, format func(float64) string) string {
	if len(steps) == 0 || barW < 2 {
		return ""
	}
	t := theme.Active

	type span struct{ from, to float64 }
	spans := make([]span, len(steps))
	lo, hi, cur := 0.0, 0.0, 0.0
	for i, s := range steps {
		if s.Total {
			spans[i] = span{0, cur}
		} else {
			spans[i] = span{cur, cur + s.Amount}
			cur += s.Amount
		}
		lo = math.Min(lo, spans[i].to)
		hi = math.Max(hi, spans[i].to)
	}
	if hi == lo {
		hi = lo + 1
	}

	col := func(v float64) int {
		return int(math.Round((v - lo) / (hi - lo) * float64(barW-1)))
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, 0, len(steps))
	for i, s := range steps {
		a, b := col(spans[i].from), col(spans[i].to)
		if a > b {
			a, b = b, a
		}
		length := max(b-a, 1)

		color := t.Green
		amount := s.Amount
		switch {
		case s.Total:
			color = t.Accent
			amount = spans[i].to
		case s.Amount < 0:
			color = t.Red
		}
		barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-*s ", labelW, s.Label))+
			blank.Render(strings.Repeat(" ", a))+
			barStyle.Render(strings.Repeat("█", length))+
			blank.Render(strings.Repeat(" ", max(barW-a-length, 0)))+
			valueStyle.Render(" "+format(amount)))
	}
	return strings.Join(lines, "\n")
}

// StackedBar is one column of a stacked bar chart: Base is drawn in the base
// color and the remainder up to Total in the top color.
type StackedBar struct {
	Label string
	Base  float64
	Total float64
}

// StackedBarChart renders bars with a Y axis and sparse X labels. It falls
// back to a sparkline of totals when the area is too small.
func StackedBarChart(bars []StackedBar, baseColor, topColor lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		totals := make([]float64, len(bars))
		for i, b := range bars {
			totals[i] = b.Total
		}
		return Sparkline(totals, topColor)
	}

	t := theme.Active

	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Total)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 1)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)

	// Downsample when there are more bars than columns.
	if limit := (chartW + 1) / 2; len(bars) > limit {
		sampled := make([]StackedBar, limit)
		for i := range sampled {
			sampled[i] = bars[i*(len(bars)-1)/(limit-1)]
		}
		bars = sampled
	}
	n := len(bars)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(max((chartW-(n-1)*gap)/n, 1), 6)
	axisLen := n*barW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	baseStyle := lipgloss.NewStyle().Foreground(baseColor).Background(t.Surface)
	topStyle := lipgloss.NewStyle().Foreground(topColor).Background(t.Surface)
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)
		rowMid := (rowTop + rowBottom) / 2

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := topStyle
			if bar.Base >= rowMid {
				style = baseStyle
			}
			switch {
			case bar.Total >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Total > rowBottom:
				idx := int((bar.Total - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	// X labels are placed left to right, skipping any that would collide.
	labels := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, bar := range bars {
		pos := i * (barW + gap)
		lbl := []rune(bar.Label)
		if pos <= lastEnd || pos+len(lbl) > axisLen {
			continue
		}
		copy(labels[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(labels), " ")))

	return b.String()
}

// QuadrantGrid draws a 2x2 grid with the four quadrant names in the corners
// and a marker at (x, y), both in [-1, 1]. Names are given top-left,
// top-right, bottom-left, bottom-right.
func QuadrantGrid(x, y float64, names [4]string, cellW, cellH int) string {
	t := theme.Active

	w := 2*cellW + 3
	h := 2*cellH + 3
	grid := make([][]rune, h)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", w))
	}

	midR, midC := h/2, w/2
	for c := 0; c < w; c++ {
		grid[0][c], grid[midR][c], grid[h-1][c] = '─', '─', '─'
	}
	for r := 0; r < h; r++ {
		grid[r][0], grid[r][midC], grid[r][w-1] = '│', '│', '│'
	}
	grid[0][0], grid[0][midC], grid[0][w-1] = '┌', '┬', '┐'
	grid[midR][0], grid[midR][midC], grid[midR][w-1] = '├', '┼', '┤'
	grid[h-1][0], grid[h-1][midC], grid[h-1][w-1] = '└', '┴', '┘'

	place := func(row, col int, s string) {
		for i, r := range []rune(s) {
			if col+i >= w-1 || (col < midC && col+i >= midC) {
				break
			}
			grid[row][col+i] = r
		}
	}
	place(1, 2, names[0])
	place(1, midC+2, names[1])
	place(midR+1, 2, names[2])
	place(midR+1, midC+2, names[3])

	clamp := func(v float64) float64 { return math.Max(-1, math.Min(1, v)) }
	mc := int(math.Round((clamp(x) + 1) / 2 * float64(w-1)))
	mr := int(math.Round((1 - clamp(y)) / 2 * float64(h-1)))

	lineStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	markStyle := lipgloss.NewStyle().Foreground(t.Magenta).Background(t.Surface).Bold(true)

	lines := make([]string, h)
	for r, row := range grid {
		if r != mr {
			lines[r] = lineStyle.Render(string(row))
			continue
		}
		lines[r] = lineStyle.Render(string(row[:mc])) +
			markStyle.Render("●") +
			lineStyle.Render(string(row[mc+1:]))
	}
	return strings.Join(lines, "\n")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	units := []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}}
	for _, u := range units {
		if v >= u.div {
			if v == math.Trunc(v/u.div)*u.div {
				return fmt.Sprintf("%.0f%s", v/u.div, u.suffix)
			}
			return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
		}
	}
	if v >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
