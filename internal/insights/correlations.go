package insights

import "math"

// Correlations contém o coeficiente de Pearson entre cada fator e o erro percentual
type Correlations struct {
	DifficultyVsError   float64 `json:"difficulty_vs_error" yaml:"difficulty_vs_error"`
	MoodVsError         float64 `json:"mood_vs_error" yaml:"mood_vs_error"`
	DistractionsVsError float64 `json:"distractions_vs_error" yaml:"distractions_vs_error"`
}

// ComputeCorrelations correlaciona dificuldade, humor e distrações com o erro
func ComputeCorrelations[R Record](records []R) Correlations {
	if len(records) < 2 {
		return Correlations{}
	}

	errs := percentErrors(records)
	difficulty := make([]float64, len(records))
	mood := make([]float64, len(records))
	distractions := make([]float64, len(records))
	for i, r := range records {
		e := r.Estimation()
		difficulty[i] = float64(e.Difficulty)
		mood[i] = float64(e.Mood)
		distractions[i] = float64(e.Distractions)
	}

	return Correlations{
		DifficultyVsError:   round(Pearson(difficulty, errs), 3),
		MoodVsError:         round(Pearson(mood, errs), 3),
		DistractionsVsError: round(Pearson(distractions, errs), 3),
	}
}

// Pearson calcula o coeficiente de correlação linear entre xs e ys.
// Retorna 0 com menos de 2 pontos, tamanhos diferentes ou variância zero.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var num, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		sumXX += dx * dx
		sumYY += dy * dy
	}

	denX := math.Sqrt(sumXX)
	denY := math.Sqrt(sumYY)
	if denX == 0 || denY == 0 {
		return 0
	}

	return num / (denX * denY)
}
