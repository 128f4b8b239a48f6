package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/cache"
	"github.com/cleberrangel/time-perception-api/internal/insights"
	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/cleberrangel/time-perception-api/internal/model"
)

// MaxWindowDays é a maior janela aceita para tendências
const MaxWindowDays = 365

// InsightService calcula métricas sobre todos os registros, com cache
type InsightService struct {
	store      EntryStore
	cache      *cache.Cache[any]
	windowDays int
	now        func() time.Time
}

// NewInsightService cria o serviço. windowDays <= 0 usa a janela padrão.
func NewInsightService(store EntryStore, insightCache *cache.Cache[any], windowDays int) *InsightService {
	if windowDays <= 0 {
		windowDays = insights.DefaultWindowDays
	}
	if insightCache == nil {
		insightCache = cache.New[any](0)
	}
	return &InsightService{
		store:      store,
		cache:      insightCache,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// WindowDays retorna a janela padrão de tendências
func (s *InsightService) WindowDays() int {
	return s.windowDays
}

// Summary retorna as métricas agregadas
func (s *InsightService) Summary(ctx context.Context) (insights.Summary, error) {
	return cached(ctx, s, "summary", "", func(entries []model.Entry) insights.Summary {
		return insights.ComputeSummary(entries)
	})
}

// Trends retorna a série diária. days == 0 usa a janela padrão.
func (s *InsightService) Trends(ctx context.Context, days int) ([]insights.TrendPoint, error) {
	if days == 0 {
		days = s.windowDays
	}
	if days < 1 || days > MaxWindowDays {
		return nil, model.ErrInvalidWindow
	}

	now := s.now()
	return cached(ctx, s, "trends", strconv.Itoa(days), func(entries []model.Entry) []insights.TrendPoint {
		return insights.ComputeTrendsAt(entries, days, now)
	})
}

// Correlations retorna as correlações com o erro percentual
func (s *InsightService) Correlations(ctx context.Context) (insights.Correlations, error) {
	return cached(ctx, s, "correlations", "", func(entries []model.Entry) insights.Correlations {
		return insights.ComputeCorrelations(entries)
	})
}

// Scatter retorna os pontos dificuldade x erro percentual
func (s *InsightService) Scatter(ctx context.Context) ([]insights.ScatterPoint, error) {
	return cached(ctx, s, "scatter", "", func(entries []model.Entry) []insights.ScatterPoint {
		return insights.ComputeScatter(entries)
	})
}

// Recommendations retorna as recomendações em ordem fixa
func (s *InsightService) Recommendations(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "recommendations", "", func(entries []model.Entry) []string {
		return insights.GenerateRecommendations(entries)
	})
}

// Report junta todas as métricas num único documento
func (s *InsightService) Report(ctx context.Context) (insights.Report, error) {
	now := s.now()
	return cached(ctx, s, "report", "", func(entries []model.Entry) insights.Report {
		return insights.BuildReport(entries, s.windowDays, now)
	})
}

// ReportFor calcula o relatório sobre registros já carregados, sem cache
func (s *InsightService) ReportFor(entries []model.Entry) insights.Report {
	return insights.BuildReport(entries, s.windowDays, s.now())
}

// cached busca no cache ou carrega os registros e calcula
func cached[T any](ctx context.Context, s *InsightService, kind, variant string, compute func([]model.Entry) T) (T, error) {
	key := insightsPrefix + kind
	if variant != "" {
		key += ":" + variant
	}

	value, hit, err := s.cache.GetOrCompute(key, func() (any, error) {
		entries, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("carregar registros: %w", err)
		}

		start := time.Now()
		result := compute(entries)
		elapsed := time.Since(start)

		metrics.Get().ObserveInsight(kind, len(entries), elapsed)
		logger.Get(ctx).Debug().
			Str("insight", kind).
			Int("records", len(entries)).
			Dur("duration", elapsed).
			Msg("Insight calculado")

		return result, nil
	})
	metrics.Get().IncrementCache(hit)
	if err != nil {
		var zero T
		return zero, err
	}

	result, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("tipo inesperado no cache para %s", key)
	}
	return result, nil
}
