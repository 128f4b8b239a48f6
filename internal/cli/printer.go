package cli

import (
	"fmt"
	"io"

	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/fatih/color"
)

// printer escreve os insights com cores opcionais
type printer struct {
	out       io.Writer
	title     *color.Color
	label     *color.Color
	good      *color.Color
	warn      *color.Color
	bad       *color.Color
	highlight *color.Color
}

func newPrinter(out io.Writer, noColor bool) *printer {
	p := &printer{
		out:       out,
		title:     color.New(color.FgCyan, color.Bold),
		label:     color.New(color.FgWhite),
		good:      color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		bad:       color.New(color.FgRed),
		highlight: color.New(color.FgMagenta, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.label, p.good, p.warn, p.bad, p.highlight} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) heading(text string) {
	p.title.Fprintf(p.out, "%s\n", text)
}

func (p *printer) field(name string, value string, c *color.Color) {
	p.label.Fprintf(p.out, "  %-26s", name)
	c.Fprintf(p.out, "%s\n", value)
}

func (p *printer) summary(s insights.Summary) {
	p.heading("Resumo")
	p.field("Registros", fmt.Sprintf("%d", s.TotalEntries), p.highlight)
	p.field("Erro médio", percent(s.AvgPercentError), p.errorColor(s.AvgPercentError))
	p.field("Erro absoluto médio", percent(s.AvgAbsPercentError), p.errorColor(s.AvgAbsPercentError))
	p.field("Excesso de confiança", percent(s.OverconfidenceIndex), p.errorColor(s.OverconfidenceIndex))
	p.field("Precisão", fmt.Sprintf("%.2f / 100", s.AccuracyScore), p.scoreColor(s.AccuracyScore))
	fmt.Fprintln(p.out)
}

func (p *printer) trends(points []insights.TrendPoint) {
	p.heading("Tendências")
	if len(points) == 0 {
		p.label.Fprintln(p.out, "  Nenhum registro na janela")
	}
	for _, pt := range points {
		p.field(pt.Date, fmt.Sprintf("%5d min  %s", pt.TotalMinutes, percent(pt.AvgPercentError)), p.errorColor(pt.AvgPercentError))
	}
	fmt.Fprintln(p.out)
}

func (p *printer) correlations(c insights.Correlations) {
	p.heading("Correlações com o erro")
	p.field("Dificuldade", fmt.Sprintf("%+.3f", c.DifficultyVsError), p.corrColor(c.DifficultyVsError))
	p.field("Humor", fmt.Sprintf("%+.3f", c.MoodVsError), p.corrColor(c.MoodVsError))
	p.field("Distrações", fmt.Sprintf("%+.3f", c.DistractionsVsError), p.corrColor(c.DistractionsVsError))
	fmt.Fprintln(p.out)
}

func (p *printer) recommendations(recs []string) {
	p.heading("Recomendações")
	for _, r := range recs {
		p.warn.Fprint(p.out, "  • ")
		p.label.Fprintln(p.out, r)
	}
	fmt.Fprintln(p.out)
}

func percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func (p *printer) errorColor(v float64) *color.Color {
	switch {
	case v > 30 || v < -30:
		return p.bad
	case v > 15 || v < -15:
		return p.warn
	default:
		return p.good
	}
}

func (p *printer) scoreColor(score float64) *color.Color {
	switch {
	case score >= 80:
		return p.good
	case score >= 50:
		return p.warn
	default:
		return p.bad
	}
}

func (p *printer) corrColor(r float64) *color.Color {
	if r > 0.3 || r < -0.3 {
		return p.highlight
	}
	return p.label
}
