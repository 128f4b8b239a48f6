package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	entriesSheet  = "Registros"
	insightsSheet = "Insights"
	timeLayout    = "2006-01-02 15:04"
)

var entryHeaders = []string{
	"ID", "Título", "Categoria", "Estimado (min)", "Real (min)", "Erro (%)",
	"Dificuldade", "Humor", "Distrações", "Notas", "Criado em",
}

// ExportService gera a planilha de registros e insights
type ExportService struct {
	store    EntryStore
	insights *InsightService
}

// NewExportService cria o serviço de exportação
func NewExportService(store EntryStore, insightService *InsightService) *ExportService {
	return &ExportService{
		store:    store,
		insights: insightService,
	}
}

// ExportResult contém a planilha gerada
type ExportResult struct {
	Buffer    *bytes.Buffer
	TotalRows int
	Filename  string
}

// Generate monta a planilha com uma aba de registros e uma de insights
func (s *ExportService) Generate(ctx context.Context) (*ExportResult, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar registros: %w", err)
	}
	report := s.insights.ReportFor(entries)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), entriesSheet); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}
	if _, err := f.NewSheet(insightsSheet); err != nil {
		return nil, fmt.Errorf("criar sheet: %w", err)
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, fmt.Errorf("criar estilo: %w", err)
	}

	if err := writeEntries(f, entries, headerStyle); err != nil {
		return nil, fmt.Errorf("escrever registros: %w", err)
	}
	if err := writeInsights(f, report, headerStyle); err != nil {
		return nil, fmt.Errorf("escrever insights: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return &ExportResult{
		Buffer:    buf,
		TotalRows: len(entries),
		Filename:  fmt.Sprintf("time-perception-%s.xlsx", report.GeneratedAt.Format("20060102-150405")),
	}, nil
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func writeEntries(f *excelize.File, entries []model.Entry, headerStyle int) error {
	if err := writeRow(f, entriesSheet, 1, toCells(entryHeaders)); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(entryHeaders))
	if err := f.SetCellStyle(entriesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, e := range entries {
		row := []interface{}{
			e.ID,
			e.Title,
			optional(e.Category),
			e.EstimatedMin,
			e.ActualMin,
			insights.PercentErrorRounded(e.Estimation()),
			e.Difficulty,
			e.Mood,
			e.Distractions,
			optional(e.Notes),
			e.CreatedAt.UTC().Format(timeLayout),
		}
		if err := writeRow(f, entriesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(entriesSheet, "A", lastCol, 16); err != nil {
		return err
	}
	return f.SetColWidth(entriesSheet, "B", "B", 40)
}

func writeInsights(f *excelize.File, report insights.Report, headerStyle int) error {
	rows := [][]interface{}{
		{"Métrica", "Valor"},
		{"Total de registros", report.Summary.TotalEntries},
		{"Erro percentual médio", report.Summary.AvgPercentError},
		{"Erro absoluto médio", report.Summary.AvgAbsPercentError},
		{"Pontuação de precisão", report.Summary.AccuracyScore},
		{"Índice de excesso de confiança", report.Summary.OverconfidenceIndex},
		{"Correlação dificuldade x erro", report.Correlations.DifficultyVsError},
		{"Correlação humor x erro", report.Correlations.MoodVsError},
		{"Correlação distrações x erro", report.Correlations.DistractionsVsError},
		{},
		{"Recomendações"},
	}
	for _, rec := range report.Recommendations {
		rows = append(rows, []interface{}{rec})
	}

	for i, row := range rows {
		if err := writeRow(f, insightsSheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(insightsSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(insightsSheet, "A", "A", 40)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
