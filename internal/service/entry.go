package service

import (
	"context"
	"fmt"

	"github.com/cleberrangel/time-perception-api/internal/cache"
	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/cleberrangel/time-perception-api/internal/websocket"
)

// insightsPrefix agrupa todas as chaves de cache derivadas dos registros
const insightsPrefix = "insights:"

// EntryStore é a persistência de registros
type EntryStore interface {
	Create(ctx context.Context, req model.EntryCreate) (*model.Entry, error)
	List(ctx context.Context) ([]model.Entry, error)
	Get(ctx context.Context, id int64) (*model.Entry, error)
	Delete(ctx context.Context, id int64) error
}

// Broadcaster notifica dashboards conectados
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// EntryService orquestra escrita e leitura de registros
type EntryService struct {
	store  EntryStore
	cache  *cache.Cache[any]
	events Broadcaster
}

// NewEntryService cria o serviço. events pode ser nil.
func NewEntryService(store EntryStore, insightCache *cache.Cache[any], events Broadcaster) *EntryService {
	return &EntryService{
		store:  store,
		cache:  insightCache,
		events: events,
	}
}

// Create grava um registro, invalida os insights e avisa os dashboards
func (s *EntryService) Create(ctx context.Context, req model.EntryCreate) (*model.Entry, error) {
	entry, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("criar registro: %w", err)
	}

	s.changed(websocket.MessageTypeEntryCreated, entry)

	logger.Get(ctx).Debug().
		Int64("entry_id", entry.ID).
		Int("estimated_min", entry.EstimatedMin).
		Int("actual_min", entry.ActualMin).
		Msg("Registro criado")

	return entry, nil
}

// List retorna todos os registros, mais recentes primeiro
func (s *EntryService) List(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar registros: %w", err)
	}
	return entries, nil
}

// Get retorna um registro ou model.ErrEntryNotFound
func (s *EntryService) Get(ctx context.Context, id int64) (*model.Entry, error) {
	return s.store.Get(ctx, id)
}

// Delete remove um registro ou retorna model.ErrEntryNotFound
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.changed(websocket.MessageTypeEntryDeleted, map[string]int64{"id": id})
	return nil
}

func (s *EntryService) changed(messageType string, data interface{}) {
	if s.cache != nil {
		s.cache.InvalidatePrefix(insightsPrefix)
	}
	if s.events != nil {
		s.events.Broadcast(messageType, data)
	}
}
