package insights

import (
	"sort"
	"time"
)

// DefaultWindowDays é a janela padrão de tendências
const DefaultWindowDays = 30

const dateLayout = "2006-01-02"

// TrendPoint agrega as estimativas de um dia
type TrendPoint struct {
	Date            string  `json:"date" yaml:"date"`
	TotalMinutes    int     `json:"total_minutes" yaml:"total_minutes"`
	AvgPercentError float64 `json:"avg_percent_error" yaml:"avg_percent_error"`
}

// ComputeTrends agrupa por dia os registros dos últimos windowDays dias
func ComputeTrends[R Record](records []R, windowDays int) []TrendPoint {
	return ComputeTrendsAt(records, windowDays, time.Now())
}

// ComputeTrendsAt é ComputeTrends com o instante atual explícito.
// Os dias são calculados em UTC. Registros com data futura passam pelo filtro.
func ComputeTrendsAt[R Record](records []R, windowDays int, now time.Time) []TrendPoint {
	cutoff := now.UTC().AddDate(0, 0, -windowDays)

	grouped := make(map[string][]Estimation)
	for _, r := range records {
		e := r.Estimation()
		if e.CreatedAt.Before(cutoff) {
			continue
		}
		day := e.CreatedAt.UTC().Format(dateLayout)
		grouped[day] = append(grouped[day], e)
	}

	results := make([]TrendPoint, 0, len(grouped))
	for day, items := range grouped {
		total := 0
		errs := make([]float64, len(items))
		for i, e := range items {
			total += e.ActualMin
			errs[i] = PercentError(e)
		}
		results = append(results, TrendPoint{
			Date:            day,
			TotalMinutes:    total,
			AvgPercentError: round(mean(errs)*100, 2),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})
	return results
}
