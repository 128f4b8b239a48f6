package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const maxWindowDays = 365

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Mostra erro médio, excesso de confiança e precisão",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.load()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), opts.noColor)
			p.summary(insights.ComputeSummary(records))
			return nil
		},
	}
}

func newTrendsCmd(opts *options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Mostra minutos e erro médio por dia",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > maxWindowDays {
				return fmt.Errorf("--days deve estar entre 1 e %d", maxWindowDays)
			}
			records, err := opts.load()
			if err != nil {
				return err
			}
			now, err := opts.referenceTime()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), opts.noColor)
			p.trends(insights.ComputeTrendsAt(records, days, now))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", insights.DefaultWindowDays, "Janela em dias")
	return cmd
}

func newCorrelationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "correlations",
		Short: "Mostra a correlação de cada fator com o erro percentual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.load()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), opts.noColor)
			p.correlations(insights.ComputeCorrelations(records))
			return nil
		},
	}
}

func newRecommendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Mostra recomendações para melhorar as estimativas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.load()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), opts.noColor)
			p.recommendations(insights.GenerateRecommendations(records))
			return nil
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	var (
		days   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Gera o relatório completo em texto, JSON ou YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > maxWindowDays {
				return fmt.Errorf("--days deve estar entre 1 e %d", maxWindowDays)
			}
			records, err := opts.load()
			if err != nil {
				return err
			}
			now, err := opts.referenceTime()
			if err != nil {
				return err
			}
			report := insights.BuildReport(records, days, now)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(report)
			case "text":
				p := newPrinter(out, opts.noColor)
				p.summary(report.Summary)
				p.trends(report.Trends)
				p.correlations(report.Correlations)
				p.recommendations(report.Recommendations)
				return nil
			default:
				return fmt.Errorf("formato desconhecido %q (use text, json ou yaml)", format)
			}
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", insights.DefaultWindowDays, "Janela das tendências em dias")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "Formato de saída: text, json ou yaml")
	return cmd
}
