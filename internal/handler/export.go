package handler

import (
	"fmt"
	"net/http"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/cleberrangel/time-perception-api/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler gera a planilha de registros
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler cria um novo handler de exportação
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Entries devolve a planilha como download
// @Router /api/export/entries.xlsx [get]
func (h *ExportHandler) Entries(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.exports.Generate(ctx)
	if err != nil {
		logger.Get(ctx).Error().Err(err).Msg("Erro ao gerar planilha")
		logger.Audit(ctx, logger.AuditEvent{
			Action:   logger.AuditActionExport,
			Resource: "entries",
			ClientIP: c.ClientIP(),
			Success:  false,
			Error:    err.Error(),
		})
		metrics.Get().IncrementExport(false)
		internalError(c, "Erro ao gerar planilha", err)
		return
	}

	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionExport,
		Resource: "entries",
		ClientIP: c.ClientIP(),
		Success:  true,
		Details: map[string]interface{}{
			"rows":  result.TotalRows,
			"bytes": result.Buffer.Len(),
		},
	})
	metrics.Get().IncrementExport(true)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, xlsxContentType, result.Buffer.Bytes())
}
