// Package export renders recorded runs as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/pendulum/internal/sim"
)

// DefaultStroke is the trail colour used when none is given.
const DefaultStroke = "#00ffff"

const (
	background = "#0a0a0a"
	maxOpacity = 0.8
)

// TrajectoryToSVG fits the trail into a width x height canvas. Points are in
// screen coordinates (y grows downward) and keep that orientation. Each
// segment fades in from transparent (oldest) to 0.8 opacity (newest).
func TrajectoryToSVG(points []sim.Point, width, height int, stroke string) string {
	if len(points) < 2 || width <= 0 || height <= 0 {
		return ""
	}
	if stroke == "" {
		stroke = DefaultStroke
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p sim.Point) sim.Point {
		return sim.Point{
			X: (p.X - minX) / rangeX * float64(width),
			Y: (p.Y - minY) / rangeY * float64(height),
		}
	}

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writeTrail(&sb, points, project, stroke, 1.5)
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Scene is one frame of the pendulum in its native pixel space.
type Scene struct {
	Width, Height int
	Origin        sim.Point
	Bob1, Bob2    sim.Point
	Trail         []sim.Point
	Stroke        string
}

// SceneToSVG draws the trail, rods and bobs without rescaling.
func SceneToSVG(s Scene) string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	stroke := s.Stroke
	if stroke == "" {
		stroke = DefaultStroke
	}

	var sb strings.Builder
	writeHeader(&sb, s.Width, s.Height)
	writeTrail(&sb, s.Trail, func(p sim.Point) sim.Point { return p }, stroke, 2)

	fmt.Fprintf(&sb, `<polyline fill="none" stroke="#ff0000" stroke-width="3" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
		s.Origin.X, s.Origin.Y, s.Bob1.X, s.Bob1.Y, s.Bob2.X, s.Bob2.Y)
	writeCircle(&sb, s.Origin, 8, "#808080")
	writeCircle(&sb, s.Bob1, 15, "#ff0000")
	writeCircle(&sb, s.Bob2, 12, "#00ff00")

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func writeTrail(sb *strings.Builder, points []sim.Point, project func(sim.Point) sim.Point, stroke string, strokeWidth float64) {
	n := len(points)
	if n < 2 {
		return
	}
	fmt.Fprintf(sb, `<g fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round">`+"\n", stroke, strokeWidth)
	for i := 1; i < n; i++ {
		a, b := project(points[i-1]), project(points[i])
		opacity := maxOpacity * float64(i) / float64(n)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-opacity="%.3f"/>`+"\n",
			a.X, a.Y, b.X, b.Y, opacity)
	}
	sb.WriteString("</g>\n")
}

func writeCircle(sb *strings.Builder, c sim.Point, r float64, fill string) {
	fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="%g" fill="%s"/>`+"\n", c.X, c.Y, r, fill)
}
