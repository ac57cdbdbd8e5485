package analysis

import (
	"strings"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

type PhasePoint struct {
	X, Y float64
}

// PhasePortrait holds the path of the state projected on two variables.
type PhasePortrait struct {
	X, Y   Variable
	Points []PhasePoint
}

func GeneratePhasePortrait(
	model *physics.Model,
	integ integrators.Integrator,
	x0 physics.State,
	xVar, yVar Variable,
	dt, duration float64,
) *PhasePortrait {
	if !(dt > 0) {
		return nil
	}
	steps := int(duration / dt)

	portrait := &PhasePortrait{
		X:      xVar,
		Y:      yVar,
		Points: make([]PhasePoint, 0, steps),
	}

	x := x0
	for i := 0; i < steps; i++ {
		integ.Step(model, &x, dt)
		portrait.Points = append(portrait.Points, PhasePoint{X: xVar.Of(x), Y: yVar.Of(x)})
	}
	return portrait
}

// PoincareSection collects the state each time the crossing variable passes
// upward through a threshold.
type PoincareSection struct {
	Points []PhasePoint
}

func GeneratePoincareSection(
	model *physics.Model,
	integ integrators.Integrator,
	x0 physics.State,
	cross Variable,
	threshold float64,
	xVar, yVar Variable,
	dt, duration float64,
) *PoincareSection {
	if !(dt > 0) {
		return nil
	}
	steps := int(duration / dt)

	section := &PoincareSection{}
	x := x0
	prev := cross.Of(x)

	for i := 0; i < steps; i++ {
		last := x
		integ.Step(model, &x, dt)
		curr := cross.Of(x)

		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			section.Points = append(section.Points, PhasePoint{
				X: lerp(xVar.Of(last), xVar.Of(x), frac),
				Y: lerp(yVar.Of(last), yVar.Of(x), frac),
			})
		}
		prev = curr
	}
	return section
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// PhasePortraitToASCII plots the points on a width x height character grid
// with axes drawn where zero is in range.
func PhasePortraitToASCII(points []PhasePoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
