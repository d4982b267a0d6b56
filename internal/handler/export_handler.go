package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/service"
	"github.com/terra-do-sol/checkin-api/pkg/response"
)

// ExportHandler streams roster downloads for the admin dashboard.
type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportRoster godoc
// @Summary      Download the family roster
// @Description  Renders the full family listing as CSV or PDF.
// @Tags         families
// @Produce      text/csv
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format  query  string  false  "csv or pdf"  default(csv)
// @Success      200
// @Failure      400  {object}  response.Envelope
// @Router       /families/export [get]
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))

	file, err := h.exports.Roster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
