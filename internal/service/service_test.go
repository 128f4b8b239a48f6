package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/cache"
	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/cleberrangel/time-perception-api/internal/websocket"
	"github.com/xuri/excelize/v2"
)

// memStore guarda registros em memória
type memStore struct {
	mu        sync.Mutex
	entries   []model.Entry
	nextID    int64
	listCalls int
	failList  error
	// afterList roda depois da leitura, simulando uma escrita concorrente
	afterList func()
}

func (m *memStore) Create(_ context.Context, req model.EntryCreate) (*model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e := model.Entry{
		ID:           m.nextID,
		Title:        req.Title,
		Category:     req.Category,
		EstimatedMin: req.EstimatedMin,
		ActualMin:    req.ActualMin,
		Difficulty:   req.Difficulty,
		Mood:         req.Mood,
		Distractions: req.Distractions,
		Notes:        req.Notes,
		CreatedAt:    time.Now().UTC(),
	}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memStore) List(context.Context) ([]model.Entry, error) {
	m.mu.Lock()
	m.listCalls++
	if m.failList != nil {
		m.mu.Unlock()
		return nil, m.failList
	}
	out := make([]model.Entry, len(m.entries))
	copy(out, m.entries)
	hook := m.afterList
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) Get(_ context.Context, id int64) (*model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, model.ErrEntryNotFound
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return model.ErrEntryNotFound
}

type recordedEvent struct {
	Type string
	Data interface{}
}

type fakeBroadcaster struct {
	events []recordedEvent
}

func (f *fakeBroadcaster) Broadcast(messageType string, data interface{}) {
	f.events = append(f.events, recordedEvent{Type: messageType, Data: data})
}

func newEntry(est, act, difficulty int) model.EntryCreate {
	return model.EntryCreate{
		Title:        "tarefa",
		EstimatedMin: est,
		ActualMin:    act,
		Difficulty:   difficulty,
		Mood:         3,
		Distractions: 1,
	}
}

func setup(t *testing.T) (*memStore, *fakeBroadcaster, *EntryService, *InsightService) {
	t.Helper()
	store := &memStore{}
	events := &fakeBroadcaster{}
	c := cache.New[any](time.Minute)
	t.Cleanup(c.Stop)
	return store, events, NewEntryService(store, c, events), NewInsightService(store, c, 30)
}

func TestInsightsAreCachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	store, events, entries, insightSvc := setup(t)

	if _, err := entries.Create(ctx, newEntry(60, 90, 4)); err != nil {
		t.Fatal(err)
	}

	first, err := insightSvc.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalEntries != 1 || first.AvgPercentError != 50 {
		t.Fatalf("unexpected summary: %+v", first)
	}
	if _, err := insightSvc.Summary(ctx); err != nil {
		t.Fatal(err)
	}
	if store.listCalls != 1 {
		t.Errorf("expected cached summary, store listed %d times", store.listCalls)
	}

	created, _ := entries.Create(ctx, newEntry(60, 30, 1))
	second, _ := insightSvc.Summary(ctx)
	if second.TotalEntries != 2 || store.listCalls != 2 {
		t.Errorf("write must invalidate cache: summary=%+v listCalls=%d", second, store.listCalls)
	}

	if err := entries.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	third, _ := insightSvc.Summary(ctx)
	if third.TotalEntries != 1 {
		t.Errorf("delete must invalidate cache, got %+v", third)
	}

	if len(events.events) != 3 ||
		events.events[0].Type != websocket.MessageTypeEntryCreated ||
		events.events[2].Type != websocket.MessageTypeEntryDeleted {
		t.Errorf("unexpected broadcast sequence: %+v", events.events)
	}
}

func TestWriteDuringComputeIsNotCached(t *testing.T) {
	ctx := context.Background()
	store, _, entries, insightSvc := setup(t)
	entries.Create(ctx, newEntry(60, 90, 4))

	var once sync.Once
	store.afterList = func() {
		once.Do(func() {
			if _, err := entries.Create(ctx, newEntry(30, 30, 2)); err != nil {
				t.Error(err)
			}
		})
	}

	// Calculado sobre a leitura anterior à escrita
	first, err := insightSvc.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalEntries != 1 {
		t.Fatalf("expected summary over the earlier read, got %+v", first)
	}

	stored, _ := store.List(ctx)
	second, err := insightSvc.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second.TotalEntries != len(stored) {
		t.Errorf("stale summary cached: stored=%d total_entries=%d", len(stored), second.TotalEntries)
	}
}

func TestDeleteMissingEntry(t *testing.T) {
	_, events, entries, _ := setup(t)

	err := entries.Delete(context.Background(), 99)
	if !errors.Is(err, model.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if len(events.events) != 0 {
		t.Error("failed delete must not broadcast")
	}
}

func TestTrendsWindowValidation(t *testing.T) {
	ctx := context.Background()
	_, _, entries, insightSvc := setup(t)
	entries.Create(ctx, newEntry(30, 45, 2))

	for _, days := range []int{-1, 366} {
		if _, err := insightSvc.Trends(ctx, days); !errors.Is(err, model.ErrInvalidWindow) {
			t.Errorf("days=%d: expected ErrInvalidWindow, got %v", days, err)
		}
	}

	points, err := insightSvc.Trends(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].TotalMinutes != 45 || points[0].AvgPercentError != 50 {
		t.Errorf("unexpected trend points: %+v", points)
	}
}

func TestInsightEndpointsAgreeWithEngine(t *testing.T) {
	ctx := context.Background()
	store, _, entries, insightSvc := setup(t)
	for i, pair := range [][3]int{{30, 45, 1}, {60, 50, 3}, {20, 40, 5}, {45, 45, 2}} {
		req := newEntry(pair[0], pair[1], pair[2])
		req.Mood = 1 + i
		req.Distractions = i
		entries.Create(ctx, req)
	}
	stored, _ := store.List(ctx)

	corr, _ := insightSvc.Correlations(ctx)
	if corr != insights.ComputeCorrelations(stored) {
		t.Errorf("correlations mismatch: %+v", corr)
	}
	recs, _ := insightSvc.Recommendations(ctx)
	if len(recs) == 0 || recs[0] == insights.MsgNeedMoreEntries {
		t.Errorf("unexpected recommendations: %v", recs)
	}
	points, _ := insightSvc.Scatter(ctx)
	if len(points) != 4 {
		t.Errorf("expected 4 scatter points, got %d", len(points))
	}
	report, _ := insightSvc.Report(ctx)
	if report.WindowDays != 30 || report.Summary.TotalEntries != 4 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestStoreErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store, _, _, insightSvc := setup(t)
	store.failList = errors.New("connection refused")

	if _, err := insightSvc.Summary(ctx); err == nil {
		t.Fatal("expected error from store")
	}

	store.failList = nil
	summary, err := insightSvc.Summary(ctx)
	if err != nil || summary.AccuracyScore != 100 {
		t.Errorf("expected empty summary after recovery, got %+v (%v)", summary, err)
	}
}

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	store, _, entries, insightSvc := setup(t)
	category := "dev"
	req := newEntry(60, 90, 4)
	req.Category = &category
	entries.Create(ctx, req)
	entries.Create(ctx, newEntry(30, 30, 2))

	result, err := NewExportService(store, insightSvc).Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRows != 2 {
		t.Errorf("expected 2 rows, got %d", result.TotalRows)
	}

	f, err := excelize.OpenReader(result.Buffer)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(entriesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "ID" {
		t.Fatalf("unexpected entries sheet: %v", rows)
	}
	// Mais recente primeiro
	if rows[1][0] != "2" || rows[2][2] != "dev" || rows[2][5] != "50" {
		t.Errorf("unexpected entry rows: %v", rows[1:])
	}

	insightRows, err := f.GetRows(insightsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(insightRows) < 2 || insightRows[1][0] != "Total de registros" || insightRows[1][1] != "2" {
		t.Errorf("unexpected insights sheet: %v", insightRows)
	}
}
