package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

type SurveyHandler struct {
	svc service.SurveyService
}

func NewSurveyHandler(svc service.SurveyService) *SurveyHandler {
	return &SurveyHandler{svc: svc}
}

type CreateSurveyReq struct {
	SessionID    string     `json:"session_id" example:"S1"`
	SiteID       string     `json:"site_id" example:"DE-1042"`
	SiteName     string     `json:"site_name" example:"Hauptstr. rooftop"`
	Region       string     `json:"region" example:"Bavaria"`
	SurveyorName string     `json:"surveyor_name" example:"J. Fischer"`
	SurveyDate   *time.Time `json:"survey_date"`
}

type ListSurveysReq struct {
	Limit  int `form:"limit,default=20" json:"limit" binding:"min=0,max=100"`
	Offset int `form:"offset,default=0" json:"offset" binding:"min=0"`
}

// Create godoc
//
//	@Summary		Create a survey
//	@Description	Registers a survey session. An omitted session_id gets a generated one.
//	@Tags			surveys
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateSurveyReq	true	"Survey attributes"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Survey}
//	@Failure		409	{object}	serializer.Response
//	@Router			/surveys [post]
func (h *SurveyHandler) Create(c *gin.Context) {
	var req CreateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	survey, err := h.svc.Create(c.Request.Context(), &model.Survey{
		SessionID:    req.SessionID,
		SiteID:       req.SiteID,
		SiteName:     req.SiteName,
		Region:       req.Region,
		SurveyorName: req.SurveyorName,
		SurveyDate:   req.SurveyDate,
	})
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(survey))
}

// List godoc
//
//	@Summary	List surveys
//	@Tags		surveys
//	@Produce	json
//	@Param		limit	query	integer	false	"Page size, default 20, max 100"
//	@Param		offset	query	integer	false	"Page offset"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=service.SurveyList}
//	@Router		/surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	var req ListSurveysReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	out, err := h.svc.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

// Get godoc
//
//	@Summary	Get a survey
//	@Tags		surveys
//	@Produce	json
//	@Param		session_id	path	string	true	"Survey session id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=model.Survey}
//	@Failure	404	{object}	serializer.Response
//	@Router		/surveys/{session_id} [get]
func (h *SurveyHandler) Get(c *gin.Context) {
	survey, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(survey))
}

// Delete godoc
//
//	@Summary		Delete a survey
//	@Description	Removes the survey with all of its form data and images.
//	@Tags			surveys
//	@Produce		json
//	@Param			session_id	path	string	true	"Survey session id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/surveys/{session_id} [delete]
func (h *SurveyHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(gin.H{"deleted": true}))
}
