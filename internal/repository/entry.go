package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/model"
)

// EntryRepository gerencia os registros de estimativas no banco
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository cria um novo repositório de registros
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, title, category, estimated_min, actual_min, difficulty, mood, distractions, notes, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*model.Entry, error) {
	var (
		e        model.Entry
		category sql.NullString
		notes    sql.NullString
	)
	err := row.Scan(
		&e.ID,
		&e.Title,
		&category,
		&e.EstimatedMin,
		&e.ActualMin,
		&e.Difficulty,
		&e.Mood,
		&e.Distractions,
		&notes,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		e.Category = &category.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	return &e, nil
}

// Create insere um novo registro e retorna a linha persistida
func (r *EntryRepository) Create(ctx context.Context, req model.EntryCreate) (*model.Entry, error) {
	log := logger.Get(ctx)

	query := `
		INSERT INTO entries (title, category, estimated_min, actual_min, difficulty, mood, distractions, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entryColumns

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query,
		req.Title,
		req.Category,
		req.EstimatedMin,
		req.ActualMin,
		req.Difficulty,
		req.Mood,
		req.Distractions,
		req.Notes,
	))
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Erro ao inserir registro")
		return nil, fmt.Errorf("erro ao inserir registro: %w", err)
	}

	log.Debug().Int64("entry_id", entry.ID).Msg("Registro inserido")
	return entry, nil
}

// List retorna todos os registros, do mais recente ao mais antigo
func (r *EntryRepository) List(ctx context.Context) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar registros: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler registro: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar registros: %w", err)
	}

	return entries, nil
}

// Get busca um registro pelo ID
func (r *EntryRepository) Get(ctx context.Context, id int64) (*model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrEntryNotFound
		}
		return nil, fmt.Errorf("erro ao buscar registro: %w", err)
	}
	return entry, nil
}

// Delete remove um registro
func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Get(ctx)

	result, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Int64("entry_id", id).Msg("Erro ao deletar registro")
		return fmt.Errorf("erro ao deletar registro: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return model.ErrEntryNotFound
	}

	log.Info().Int64("entry_id", id).Msg("Registro removido")
	return nil
}
