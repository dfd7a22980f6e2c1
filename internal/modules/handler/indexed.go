package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

// IndexedFormHandler exposes a repeated module keyed by
// (session_id, entity_index).
type IndexedFormHandler[T any, PT interface {
	*T
	repo.IndexScoped
}] struct {
	svc service.IndexedFormService[T, PT]
}

func NewIndexedFormHandler[T any, PT interface {
	*T
	repo.IndexScoped
}](svc service.IndexedFormService[T, PT]) *IndexedFormHandler[T, PT] {
	return &IndexedFormHandler[T, PT]{svc: svc}
}

func entityIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("entity index must be an integer", err))
		return 0, false
	}
	return idx, true
}

// List godoc
//
//	@Summary	List entries
//	@Tags		forms
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/{module}/{session_id} [get]
func (h *IndexedFormHandler[T, PT]) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// Get godoc
//
//	@Summary	Get one entry
//	@Tags		forms
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Param		index		path	integer	true	"Entity index"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Failure	404	{object}	serializer.Response
//	@Router		/{module}/{session_id}/{index} [get]
func (h *IndexedFormHandler[T, PT]) Get(c *gin.Context) {
	idx, ok := entityIndex(c)
	if !ok {
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), c.Param("session_id"), idx)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(rec))
}

// Put godoc
//
//	@Summary	Upsert one entry
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Param		index		path	integer	true	"Entity index"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Failure	400	{object}	serializer.Response
//	@Router		/{module}/{session_id}/{index} [put]
func (h *IndexedFormHandler[T, PT]) Put(c *gin.Context) {
	idx, ok := entityIndex(c)
	if !ok {
		return
	}
	rec := PT(new(T))
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	stored, err := h.svc.Put(c.Request.Context(), c.Param("session_id"), idx, rec)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(stored))
}

// Delete godoc
//
//	@Summary	Delete one entry
//	@Tags		forms
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Param		index		path	integer	true	"Entity index"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Failure	404	{object}	serializer.Response
//	@Router		/{module}/{session_id}/{index} [delete]
func (h *IndexedFormHandler[T, PT]) Delete(c *gin.Context) {
	idx, ok := entityIndex(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("session_id"), idx); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(gin.H{"deleted": true}))
}
