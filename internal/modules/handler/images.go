package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

// ImageHandler serves the photo endpoints of one form module. Multipart
// field names encode the target: `[<module>_][<index>_]<category>`, e.g.
// `front_view`, `0_grounding` or `new_antenna_2_label`. Field names that do
// not parse fail that file only; the rest of the request proceeds.
type ImageHandler[T any, PT interface {
	*T
	repo.ImageRecord
}] struct {
	svc     service.ImageService[T, PT]
	fieldRe *regexp.Regexp
	indexed bool
}

func NewImageHandler[T any, PT interface {
	*T
	repo.ImageRecord
}](svc service.ImageService[T, PT], modulePrefix string, indexed bool) *ImageHandler[T, PT] {
	var re *regexp.Regexp
	if indexed {
		re = regexp.MustCompile(fmt.Sprintf(`^(?:%s_)?(\d+)_([a-z][a-z0-9_]*)$`, regexp.QuoteMeta(modulePrefix)))
	} else {
		re = regexp.MustCompile(fmt.Sprintf(`^(?:%s_)?([a-z][a-z0-9_]*)$`, regexp.QuoteMeta(modulePrefix)))
	}
	return &ImageHandler[T, PT]{svc: svc, fieldRe: re, indexed: indexed}
}

type uploadFailure struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type uploadResult[T any] struct {
	Uploaded []T             `json:"uploaded"`
	Failed   []uploadFailure `json:"failed"`
}

// parseField extracts (entity_index, category) from a multipart field name.
func (h *ImageHandler[T, PT]) parseField(field string) (*int, string, error) {
	m := h.fieldRe.FindStringSubmatch(field)
	if m == nil {
		return nil, "", fmt.Errorf("field name %q does not match the expected pattern", field)
	}
	if !h.indexed {
		return nil, m[1], nil
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, "", fmt.Errorf("field name %q carries an invalid index", field)
	}
	return &idx, m[2], nil
}

// Upload godoc
//
//	@Summary		Upload images
//	@Description	Replace-on-upload: each file replaces the active image of its (index, category) slot. Files fail individually; valid ones still land.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			session_id	path		string	true	"Survey session id"
//	@Param			description	formData	string	false	"Description applied to the uploaded images"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		400	{object}	serializer.Response
//	@Router			/{module}/{session_id}/images [post]
func (h *ImageHandler[T, PT]) Upload(c *gin.Context) {
	sessionID := c.Param("session_id")
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid multipart form", err))
		return
	}
	if len(form.File) == 0 {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("no files in request", nil))
		return
	}

	var description *string
	if d := c.PostForm("description"); d != "" {
		description = &d
	}

	out := uploadResult[T]{Uploaded: []T{}, Failed: []uploadFailure{}}
	for field, headers := range form.File {
		idx, category, err := h.parseField(field)
		if err != nil {
			out.Failed = append(out.Failed, uploadFailure{Field: field, Error: err.Error()})
			continue
		}
		for _, header := range headers {
			rec, err := h.replaceOne(c, sessionID, idx, category, description, header)
			if err != nil {
				out.Failed = append(out.Failed, uploadFailure{Field: field, Error: err.Error()})
				continue
			}
			out.Uploaded = append(out.Uploaded, *rec)
		}
	}

	status := http.StatusOK
	if len(out.Uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, serializer.Response{Success: len(out.Uploaded) > 0, Data: out})
}

func (h *ImageHandler[T, PT]) replaceOne(c *gin.Context, sessionID string, idx *int, category string, description *string, header *multipart.FileHeader) (PT, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	rec, err := h.svc.Replace(c.Request.Context(), service.ImageUpload{
		SessionID:    sessionID,
		EntityIndex:  idx,
		Category:     category,
		OriginalName: header.Filename,
		Description:  description,
		Content:      content,
	})
	if err != nil {
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			return nil, errors.New(svcErr.Message)
		}
		return nil, err
	}
	return rec, nil
}

// List godoc
//
//	@Summary	List active images
//	@Tags		images
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/{module}/{session_id}/images [get]
func (h *ImageHandler[T, PT]) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// Delete godoc
//
//	@Summary	Delete an image
//	@Tags		images
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Param		image_id	path	integer	true	"Image id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Failure	404	{object}	serializer.Response
//	@Router		/{module}/{session_id}/images/{image_id} [delete]
func (h *ImageHandler[T, PT]) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("image_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("image id must be an integer", err))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("session_id"), uint(id)); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(gin.H{"deleted": true}))
}
