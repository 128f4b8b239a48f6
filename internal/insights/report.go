package insights

import "time"

// ScatterPoint relaciona a dificuldade de uma tarefa com seu erro percentual
type ScatterPoint struct {
	Difficulty   int     `json:"difficulty" yaml:"difficulty"`
	PercentError float64 `json:"percent_error" yaml:"percent_error"`
}

// ComputeScatter retorna um ponto por registro, na ordem de entrada
func ComputeScatter[R Record](records []R) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(records))
	for _, r := range records {
		e := r.Estimation()
		points = append(points, ScatterPoint{
			Difficulty:   e.Difficulty,
			PercentError: PercentErrorRounded(e),
		})
	}
	return points
}

// Report reúne todas as métricas calculadas sobre o mesmo conjunto de registros
type Report struct {
	GeneratedAt     time.Time    `json:"generated_at" yaml:"generated_at"`
	WindowDays      int          `json:"window_days" yaml:"window_days"`
	Summary         Summary      `json:"summary" yaml:"summary"`
	Trends          []TrendPoint `json:"trends" yaml:"trends"`
	Correlations    Correlations `json:"correlations" yaml:"correlations"`
	Recommendations []string     `json:"recommendations" yaml:"recommendations"`
}

// BuildReport calcula todas as métricas usando now como instante de referência
func BuildReport[R Record](records []R, windowDays int, now time.Time) Report {
	return Report{
		GeneratedAt:     now,
		WindowDays:      windowDays,
		Summary:         ComputeSummary(records),
		Trends:          ComputeTrendsAt(records, windowDays, now),
		Correlations:    ComputeCorrelations(records),
		Recommendations: GenerateRecommendations(records),
	}
}
