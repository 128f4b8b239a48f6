package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/cleberrangel/time-perception-api/internal/service"
	"github.com/gin-gonic/gin"
)

// InsightHandler expõe as métricas calculadas sobre os registros.
// As respostas são o JSON cru de cada métrica, sem envelope.
type InsightHandler struct {
	insights *service.InsightService
}

// NewInsightHandler cria um novo handler de insights
func NewInsightHandler(insights *service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Summary retorna o resumo agregado
// @Router /api/insights/summary [get]
func (h *InsightHandler) Summary(c *gin.Context) {
	result, err := h.insights.Summary(c.Request.Context())
	respond(c, "summary", result, err)
}

// Trends aceita ?days=N entre 1 e 365
// @Router /api/insights/trends [get]
func (h *InsightHandler) Trends(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   model.ErrInvalidWindow.Error(),
				Details: "days deve ser um inteiro entre 1 e 365",
			})
			return
		}
		days = parsed
	}

	result, err := h.insights.Trends(c.Request.Context(), days)
	respond(c, "trends", result, err)
}

// Correlations retorna as correlações com o erro percentual
// @Router /api/insights/correlations [get]
func (h *InsightHandler) Correlations(c *gin.Context) {
	result, err := h.insights.Correlations(c.Request.Context())
	respond(c, "correlations", result, err)
}

// Scatter retorna os pontos dificuldade x erro
// @Router /api/insights/scatter [get]
func (h *InsightHandler) Scatter(c *gin.Context) {
	result, err := h.insights.Scatter(c.Request.Context())
	respond(c, "scatter", result, err)
}

// Recommendations retorna as recomendações
// @Router /api/insights/recommendations [get]
func (h *InsightHandler) Recommendations(c *gin.Context) {
	result, err := h.insights.Recommendations(c.Request.Context())
	respond(c, "recommendations", result, err)
}

// Report junta todas as métricas
// @Router /api/insights/report [get]
func (h *InsightHandler) Report(c *gin.Context) {
	result, err := h.insights.Report(c.Request.Context())
	respond(c, "report", result, err)
}

func respond(c *gin.Context, kind string, result interface{}, err error) {
	if errors.Is(err, model.ErrInvalidWindow) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   err.Error(),
			Details: "days deve ser um inteiro entre 1 e 365",
		})
		return
	}
	if err != nil {
		logger.FromGin(c).Error().Err(err).Str("insight", kind).Msg("Erro ao calcular insight")
		internalError(c, "Erro ao calcular insight", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
