package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

// FormHandler exposes the uniform GET/PUT/PATCH/DELETE surface of a
// singleton form module. One instance is registered per module.
type FormHandler[T any, PT interface {
	*T
	repo.SessionScoped
}] struct {
	svc service.FormService[T, PT]
}

func NewFormHandler[T any, PT interface {
	*T
	repo.SessionScoped
}](svc service.FormService[T, PT]) *FormHandler[T, PT] {
	return &FormHandler[T, PT]{svc: svc}
}

// Get godoc
//
//	@Summary		Get form data
//	@Description	Returns the module's form data for a session, or the default shape when none was saved. Never creates a row.
//	@Tags			forms
//	@Produce		json
//	@Param			session_id	path	string	true	"Survey session id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/{module}/{session_id} [get]
func (h *FormHandler[T, PT]) Get(c *gin.Context) {
	sessionID := c.Param("session_id")
	rec, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(rec))
}

// Put godoc
//
//	@Summary		Upsert form data
//	@Description	Full-row create-or-replace after enum validation and empty-string coercion.
//	@Tags			forms
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path	string	true	"Survey session id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		400	{object}	serializer.Response
//	@Router			/{module}/{session_id} [put]
func (h *FormHandler[T, PT]) Put(c *gin.Context) {
	sessionID := c.Param("session_id")
	rec := PT(new(T))
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	stored, err := h.svc.Put(c.Request.Context(), sessionID, rec)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(stored))
}

// Patch godoc
//
//	@Summary		Partially update form data
//	@Tags			forms
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path	string	true	"Survey session id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/{module}/{session_id} [patch]
func (h *FormHandler[T, PT]) Patch(c *gin.Context) {
	sessionID := c.Param("session_id")
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	stored, err := h.svc.Patch(c.Request.Context(), sessionID, fields)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(stored))
}

// Delete godoc
//
//	@Summary	Delete form data
//	@Tags		forms
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Failure	404	{object}	serializer.Response
//	@Router		/{module}/{session_id} [delete]
func (h *FormHandler[T, PT]) Delete(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := h.svc.Delete(c.Request.Context(), sessionID); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(gin.H{"deleted": true}))
}
