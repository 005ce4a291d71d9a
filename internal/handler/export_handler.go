package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/service"
	"github.com/noah-isme/event-tracker-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, format service.ExportFormat, params url.Values) (*service.ExportResult, error)
}

// ExportHandler streams event exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export events
// @Description Renders the complete filtered listing, without pagination
// @Tags Events
// @Produce text/csv,application/pdf,text/calendar
// @Param format query string false "csv (default), pdf or ics"
// @Param scope query string false "upcoming (default), past or all"
// @Param from query string false "Inclusive lower bound YYYY-MM-DD"
// @Param to query string false "Inclusive upper bound YYYY-MM-DD"
// @Param type query []string false "Type filters" collectionFormat(multi)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /events/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.service.Export(c.Request.Context(), format, c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, res.ContentType, res.Body)
}
