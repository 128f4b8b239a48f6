package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/cleberrangel/time-perception-api/internal/middleware"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/cleberrangel/time-perception-api/internal/service"
	"github.com/gin-gonic/gin"
)

// EntryHandler gerencia os endpoints de registros
type EntryHandler struct {
	entries *service.EntryService
}

// NewEntryHandler cria um novo handler de registros
func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// Create registra uma nova estimativa
// @Router /api/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.EntryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Dados inválidos",
			Details: err.Error(),
		})
		return
	}

	middleware.SanitizeEntry(&req)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Dados inválidos",
			Details: "title não pode ser vazio",
		})
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Erro ao criar registro")
		logger.Audit(c.Request.Context(), logger.AuditEvent{
			Action:   logger.AuditActionEntryCreate,
			Resource: "entry",
			ClientIP: c.ClientIP(),
			Success:  false,
			Error:    err.Error(),
		})
		internalError(c, "Erro ao criar registro", err)
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionEntryCreate,
		Resource:   "entry",
		ResourceID: strconv.FormatInt(entry.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"estimated_min": entry.EstimatedMin,
			"actual_min":    entry.ActualMin,
		},
	})
	metrics.Get().IncrementEntryCreated()

	c.JSON(http.StatusCreated, entry)
}

// List retorna todos os registros, mais recentes primeiro
// @Router /api/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error().Err(err).Msg("Erro ao listar registros")
		internalError(c, "Erro ao listar registros", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Get retorna um registro pelo ID
// @Router /api/entries/{id} [get]
func (h *EntryHandler) Get(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, err := h.entries.Get(c.Request.Context(), id)
	if errors.Is(err, model.ErrEntryNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		logger.FromGin(c).Error().Err(err).Int64("entry_id", id).Msg("Erro ao buscar registro")
		internalError(c, "Erro ao buscar registro", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete remove um registro
// @Router /api/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	err := h.entries.Delete(c.Request.Context(), id)
	if errors.Is(err, model.ErrEntryNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		logger.FromGin(c).Error().Err(err).Int64("entry_id", id).Msg("Erro ao remover registro")
		internalError(c, "Erro ao remover registro", err)
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionEntryDelete,
		Resource:   "entry",
		ResourceID: strconv.FormatInt(id, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
	})
	metrics.Get().IncrementEntryDeleted()

	c.Status(http.StatusNoContent)
}

func parseEntryID(c *gin.Context) (int64, bool) {
	id, ok := middleware.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "ID inválido",
		})
	}
	return id, ok
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, model.ErrorResponse{
		Success: false,
		Error:   model.ErrEntryNotFound.Error(),
	})
}

func internalError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Success: false,
		Error:   message,
		Details: err.Error(),
	})
}
