// Package chart provides terminal rendering for sensor liveness: status
// badges, elapsed-versus-threshold bars and value sparklines with minute
// tick marks.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorwatch/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// AgeColor returns the color for a silence of elapsed given the offline
// threshold.
func AgeColor(elapsed, threshold time.Duration) lipgloss.Color {
	switch {
	case elapsed > threshold:
		return lipgloss.Color("196") // red
	case float64(elapsed) >= float64(threshold)*0.85:
		return lipgloss.Color("208") // orange
	case float64(elapsed) >= float64(threshold)*0.5:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderStatus renders an ONLINE/OFFLINE badge.
func RenderStatus(offline bool) string {
	if offline {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("OFFLINE")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render("ONLINE")
}

// RenderElapsed renders a silence duration colored against threshold.
func RenderElapsed(elapsed, threshold time.Duration) string {
	s := FormatAge(elapsed)
	style := lipgloss.NewStyle().Foreground(AgeColor(elapsed, threshold))
	if elapsed > threshold {
		style = style.Bold(true)
	}
	return style.Render(s)
}

// FormatAge formats a duration compactly, e.g. "42s", "5m00s", "1h02m".
func FormatAge(d time.Duration) string {
	if d < 0 {
		return "-" + FormatAge(-d)
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// RenderGraceBar renders a bar spanning [0, 2×threshold] with a marker at
// the threshold and a diamond at the current silence.
func RenderGraceBar(elapsed, threshold time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	span := 2 * float64(threshold)
	if span <= 0 {
		span = 1
	}

	threshPos := int(float64(width-1) * float64(threshold) / span)
	curPos := int(float64(width-1) * float64(elapsed) / span)
	if curPos < 0 {
		curPos = 0
	}
	if curPos >= width {
		curPos = width - 1
	}

	markS := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dotS := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	curS := lipgloss.NewStyle().Foreground(AgeColor(elapsed, threshold)).Bold(true)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch i {
		case curPos:
			sb.WriteString(curS.Render("◆"))
		case threshPos:
			sb.WriteString(markS.Render("▪"))
		default:
			sb.WriteString(dotS.Render("·"))
		}
	}
	return sb.String()
}

// RenderSparklinePoints renders a sparkline right-aligned in width cells.
// A subtle pipe replaces the block at each minute boundary.
func RenderSparklinePoints(points []history.Point, width int, rangeMin, rangeMax float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	valStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("111"))

	for i, p := range points {
		if minuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}
		norm := (p.Value - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}
		sb.WriteString(valStyle.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

// RenderTimeline renders HH:MM labels under the sparkline at each minute
// tick position.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	lastEnd := -1
	for i, p := range points {
		if !minuteTick(points, i) {
			continue
		}
		label := p.Time.Format("15:04")
		start := padLen + i - 2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width || start <= lastEnd+1 {
			continue
		}
		for j, ch := range label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render(string(line))
}

func minuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	return i > 0 && !points[i-1].Time.IsZero() && p.Time.Minute() != points[i-1].Time.Minute()
}
