package coordinator

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
)

// StageTiming is one player's observed stage round duration (sending the
// stage, the player's transform, reading it back and verifying it), keyed
// by stage name and player arrival index.
type StageTiming struct {
	Stage       string
	PlayerIndex int
	Seconds     float64
}

// RenderTimingReport draws a per-stage bar-style line chart of
// StageTiming observations to w as a PNG, giving an operator a quick
// visual sanity check of ceremony progress (the teacher declares
// go-chart/v2 in its own go.mod without ever rendering anything; the
// ceremony gives it an actual home).
func RenderTimingReport(w io.Writer, timings []StageTiming) error {
	byStage := map[string][]StageTiming{}
	for _, t := range timings {
		byStage[t.Stage] = append(byStage[t.Stage], t)
	}

	var series []chart.Series
	for _, stage := range []string{"stage1", "stage2", "stage3"} {
		ts := byStage[stage]
		if len(ts) == 0 {
			continue
		}
		xs := make([]float64, len(ts))
		ys := make([]float64, len(ts))
		for i, t := range ts {
			xs[i] = float64(t.PlayerIndex)
			ys[i] = t.Seconds
		}
		series = append(series, chart.ContinuousSeries{
			Name:    stage,
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title: "Ceremony stage verification timing",
		XAxis: chart.XAxis{Name: "player arrival order"},
		YAxis: chart.YAxis{Name: "seconds"},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}
