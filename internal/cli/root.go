// Package cli implementa o comando tpa, que calcula os insights a partir de
// arquivos de registros sem precisar da API nem do banco.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/fixture"
	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

const dateLayout = "2006-01-02"

// options são as flags globais compartilhadas pelos subcomandos
type options struct {
	file    string
	noColor bool
	until   string
}

// NewRootCmd monta a árvore de comandos
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "tpa",
		Short:   "Analisa a precisão de estimativas de tempo",
		Version: version,
		Long: `tpa calcula os mesmos insights da API (resumo, tendências, correlações
e recomendações) a partir de um arquivo YAML ou JSON de registros.
A saída de GET /api/entries pode ser usada diretamente.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Arquivo de registros (.yaml, .yml, .json ou - para stdin; em stdin o formato é detectado pelo conteúdo)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Desativa cores na saída")
	root.PersistentFlags().StringVar(&opts.until, "until", "", "Data de referência YYYY-MM-DD para as tendências (padrão: agora)")

	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newTrendsCmd(opts))
	root.AddCommand(newCorrelationsCmd(opts))
	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newReportCmd(opts))

	return root
}

// Execute roda o comando raiz e devolve o código de saída
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (o *options) load() ([]insights.Estimation, error) {
	if o.file == "" {
		return nil, fmt.Errorf("informe o arquivo de registros com --file")
	}
	return fixture.Load(o.file)
}

// referenceTime devolve o fim do dia indicado por --until, ou agora
func (o *options) referenceTime() (time.Time, error) {
	if o.until == "" {
		return time.Now(), nil
	}
	day, err := time.Parse(dateLayout, o.until)
	if err != nil {
		return time.Time{}, fmt.Errorf("--until inválido: %w", err)
	}
	return day.Add(24*time.Hour - time.Nanosecond), nil
}
