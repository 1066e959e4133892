package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tahcohcat/coach-pro/internal/models"
)

// MaxGoals is how many goals make it onto one chart.
const MaxGoals = 5

// RenderProgress renders a progress bar chart for up to MaxGoals goals and
// returns the encoded PNG. Callers pass the most recently created goals
// regardless of status.
func RenderProgress(goals []models.Goal) ([]byte, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("no goals to chart")
	}
	if len(goals) > MaxGoals {
		goals = goals[:MaxGoals]
	}

	bars := make([]chart.Value, 0, len(goals))
	for _, g := range goals {
		bars = append(bars, chart.Value{
			Label: truncateTitle(g.Title, 20),
			Value: float64(g.Progress),
		})
	}

	graph := chart.BarChart{
		Title:    "I Tuoi Progressi",
		Width:    800,
		Height:   400,
		BarWidth: 80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render progress chart: %w", err)
	}
	return buf.Bytes(), nil
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}
