package insights

import "math"

// Summary contém as métricas agregadas de todas as estimativas
type Summary struct {
	TotalEntries        int     `json:"total_entries" yaml:"total_entries"`
	AvgPercentError     float64 `json:"avg_percent_error" yaml:"avg_percent_error"`         // com sinal (%)
	AvgAbsPercentError  float64 `json:"avg_abs_percent_error" yaml:"avg_abs_percent_error"` // magnitude (%)
	OverconfidenceIndex float64 `json:"overconfidence_index" yaml:"overconfidence_index"`   // apenas subestimação (%)
	AccuracyScore       float64 `json:"accuracy_score" yaml:"accuracy_score"`               // 0-100
}

// ComputeSummary calcula erro médio, erro absoluto, índice de excesso de
// confiança e score de precisão. Sem registros, a precisão é 100.
func ComputeSummary[R Record](records []R) Summary {
	if len(records) == 0 {
		return Summary{AccuracyScore: 100.0}
	}

	errs := percentErrors(records)
	abs := make([]float64, len(errs))
	over := make([]float64, len(errs))
	for i, pe := range errs {
		abs[i] = math.Abs(pe)
		over[i] = math.Max(0, pe)
	}

	avgAbs := mean(abs)
	// Erro absoluto médio >= 100% zera o score
	accuracy := 100.0 * (1.0 - clamp(avgAbs, 0, 1))

	return Summary{
		TotalEntries:        len(records),
		AvgPercentError:     round(mean(errs)*100, 2),
		AvgAbsPercentError:  round(avgAbs*100, 2),
		OverconfidenceIndex: round(mean(over)*100, 2),
		AccuracyScore:       round(accuracy, 2),
	}
}
