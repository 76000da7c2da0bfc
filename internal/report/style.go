package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/skillgap/internal/pipeline"
	"github.com/spigell/skillgap/internal/skills"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleBold   = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func tierStyle(t skills.Tier) lipgloss.Style {
	switch t {
	case skills.TierEasy:
		return styleGreen
	case skills.TierModerate:
		return styleYellow
	case skills.TierDifficult:
		return styleRed
	default:
		return styleDim
	}
}

func sourceStyle(s pipeline.Source) lipgloss.Style {
	switch s {
	case pipeline.SourceOracle:
		return styleGreen
	case pipeline.SourceFallback:
		return styleYellow
	case pipeline.SourceFormula:
		return styleBlue
	default:
		return styleDim
	}
}

// scoreStyle is green from 66, yellow from 33 and red below.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 66:
		return styleGreen
	case score >= 33:
		return styleYellow
	default:
		return styleRed
	}
}

func header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(upper), styleDim.Render(line))
}

// scoreBar renders a bar like [████░░░░]  75%.
func scoreBar(score, width int) string {
	score = skills.Clamp(score)
	if width < 2 {
		width = 2
	}
	filled := score * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3d%%", scoreStyle(score).Render(bar), score)
}

func box(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		PaddingLeft(2).
		PaddingRight(2).
		Render(content)
}
