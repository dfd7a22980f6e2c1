package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export godoc
//
//	@Summary		Export a survey as a spreadsheet
//	@Description	Renders every module of the session into an .xlsx workbook and streams it as an attachment.
//	@Tags			export
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			session_id	path	string	true	"Survey session id"
//	@Security		BearerAuth
//	@Success		200	{file}		file
//	@Failure		404	{object}	serializer.Response
//	@Router			/export/{session_id} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	filename, content, err := h.svc.Export(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
