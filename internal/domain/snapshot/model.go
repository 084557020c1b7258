package snapshot

import "time"

// TeamValue is one team's finalized value in a ranking.
type TeamValue struct {
	Team  string  `json:"team"`
	Value float64 `json:"value"`
}

// ChartDataset is a renderable bar dataset in the shape charting frontends
// expect.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// ChartData pairs ranked team labels with their dataset.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// Status describes where a contest sits in its lifecycle. Winner is nil
// until the contest completes and lists every team tied at the top value.
type Status struct {
	Started       bool     `json:"is_started"`
	DaysToStart   *int     `json:"days_to_start,omitempty"`
	DaysRemaining *int     `json:"days_remaining"`
	Complete      bool     `json:"is_complete"`
	Winner        []string `json:"winner"`
}

// Snapshot is one computed contest result. History is append-only; the
// newest ComputedAt wins on read.
type Snapshot struct {
	ID         string
	ContestID  string
	Rankings   []TeamValue
	Chart      ChartData
	Warning    string
	Status     Status
	ComputedAt time.Time
}

var barFills = []string{
	"#4CAF50", "#2196F3", "#FF9800", "#F44336", "#9C27B0", "#3F51B5",
	"#FFEB3B", "#009688", "#E91E63", "#607D8B", "#FFC107", "#795548",
}

var barBorders = []string{
	"#388E3C", "#1976D2", "#F57C00", "#D32F2F", "#7B1FA2", "#303F9F",
	"#FBC02D", "#00796B", "#C2185B", "#455A64", "#FFB300", "#5D4037",
}

// BuildChart assembles the fixed-palette bar chart for ranked teams. An
// empty ranking still yields a well-formed, empty dataset.
func BuildChart(label string, rankings []TeamValue) ChartData {
	labels := make([]string, 0, len(rankings))
	data := make([]float64, 0, len(rankings))
	for _, r := range rankings {
		labels = append(labels, r.Team)
		data = append(data, r.Value)
	}
	fills := barFills
	borders := barBorders
	if len(rankings) == 0 {
		fills = []string{}
		borders = []string{}
	}
	return ChartData{
		Labels: labels,
		Datasets: []ChartDataset{{
			Label:           label,
			Data:            data,
			BackgroundColor: fills,
			BorderColor:     borders,
			BorderWidth:     1,
		}},
	}
}
