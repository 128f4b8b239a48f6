// Package insights calcula métricas de precisão de estimativas de tempo.
//
// Todas as funções são puras: recebem uma sequência de registros, nunca a
// modificam e devolvem estruturas novas. Não há estado global.
package insights

import (
	"math"
	"strconv"
	"time"
)

// Estimation contém os campos de um registro lidos pelo motor de métricas
type Estimation struct {
	EstimatedMin int       `json:"estimated_min" yaml:"estimated_min"`
	ActualMin    int       `json:"actual_min" yaml:"actual_min"`
	Difficulty   int       `json:"difficulty" yaml:"difficulty"`
	Mood         int       `json:"mood" yaml:"mood"`
	Distractions int       `json:"distractions" yaml:"distractions"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Record é qualquer fonte de dados (linha do banco, fixture, payload) que
// expõe os campos de uma estimativa
type Record interface {
	Estimation() Estimation
}

// Estimation permite usar o próprio struct como Record
func (e Estimation) Estimation() Estimation {
	return e
}

// PercentError retorna o erro relativo com sinal (fração, não multiplicada por 100).
// estimated_min é limitado a no mínimo 1 para evitar divisão por zero.
func PercentError(e Estimation) float64 {
	est := e.EstimatedMin
	if est < 1 {
		est = 1
	}
	return float64(e.ActualMin-est) / float64(est)
}

// PercentErrorRounded é o erro percentual ×100 com duas casas, como exibido ao usuário
func PercentErrorRounded(e Estimation) float64 {
	return round(PercentError(e)*100, 2)
}

// percentErrors deriva o erro de cada registro na ordem de entrada
func percentErrors[R Record](records []R) []float64 {
	errs := make([]float64, len(records))
	for i, r := range records {
		errs[i] = PercentError(r.Estimation())
	}
	return errs
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// round arredonda para o número de casas decimais informado.
// Empates exatos vão para o dígito par. A conversão decimal parte do valor
// binário exato, então x*10^p não introduz empates falsos.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
