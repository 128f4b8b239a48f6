// Package fixture carrega registros de arquivos YAML ou JSON para uso offline.
//
// Os arquivos podem conter uma lista de registros ou um objeto com a chave
// "entries". A saída de GET /api/entries é aceita diretamente.
package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indica extensão desconhecida
var ErrUnsupportedFormat = errors.New("formato de fixture não suportado")

// Format é o formato do arquivo de registros
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// entryRow é um registro como aparece no arquivo, com os mesmos limites da API
type entryRow struct {
	EstimatedMin int       `json:"estimated_min" yaml:"estimated_min" validate:"min=1,max=1440"`
	ActualMin    int       `json:"actual_min" yaml:"actual_min" validate:"min=1,max=1440"`
	Difficulty   int       `json:"difficulty" yaml:"difficulty" validate:"min=1,max=5"`
	Mood         int       `json:"mood" yaml:"mood" validate:"min=1,max=5"`
	Distractions int       `json:"distractions" yaml:"distractions" validate:"min=0,max=5"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

func (r entryRow) estimation() insights.Estimation {
	return insights.Estimation{
		EstimatedMin: r.EstimatedMin,
		ActualMin:    r.ActualMin,
		Difficulty:   r.Difficulty,
		Mood:         r.Mood,
		Distractions: r.Distractions,
		CreatedAt:    r.CreatedAt,
	}
}

type document struct {
	Entries []entryRow `json:"entries" yaml:"entries"`
}

var rowValidate *validator.Validate

func init() {
	rowValidate = validator.New()

	// Erros usam os nomes de campo do arquivo
	rowValidate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
}

// Load lê o arquivo, escolhendo o formato pela extensão.
// "-" lê da entrada padrão e detecta JSON ou YAML pelo conteúdo.
func Load(path string) ([]insights.Estimation, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("ler stdin: %w", err)
		}
		return Decode(bytes.NewReader(data), DetectFormat(data))
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir fixture: %w", err)
	}
	defer f.Close()

	records, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// FormatFor deduz o formato pela extensão do arquivo
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DetectFormat trata como JSON o conteúdo que começa com '[' ou '{'; o resto é YAML
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode lê registros no formato informado e valida os campos
func Decode(r io.Reader, format Format) ([]insights.Estimation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ler fixture: %w", err)
	}

	var rows []entryRow
	switch format {
	case FormatJSON:
		rows, err = decodeJSON(data)
	case FormatYAML:
		rows, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	records := make([]insights.Estimation, 0, len(rows))
	for i, row := range rows {
		if err := validate(row); err != nil {
			return nil, fmt.Errorf("registro %d: %w", i+1, err)
		}
		records = append(records, row.estimation())
	}
	return records, nil
}

func decodeJSON(data []byte) ([]entryRow, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var rows []entryRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decodificar JSON: %w", err)
		}
		return rows, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decodificar JSON: %w", err)
	}
	return doc.Entries, nil
}

func decodeYAML(data []byte) ([]entryRow, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decodificar YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	if root.Content[0].Kind == yaml.SequenceNode {
		var rows []entryRow
		if err := root.Content[0].Decode(&rows); err != nil {
			return nil, fmt.Errorf("decodificar YAML: %w", err)
		}
		return rows, nil
	}

	var doc document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("decodificar YAML: %w", err)
	}
	return doc.Entries, nil
}

// validate aplica os limites declarados em entryRow
func validate(row entryRow) error {
	err := rowValidate.Struct(row)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return fmt.Errorf("%s inválido (%s=%s): %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
}
