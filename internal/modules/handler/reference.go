package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
)

// ReferenceHandler serves the MU → Country → CT → Project → Company lookup
// chain plus the seeding POST endpoints.
type ReferenceHandler struct {
	svc service.ReferenceService
}

func NewReferenceHandler(svc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("id must be an integer", err))
		return 0, false
	}
	return uint(id), true
}

// ListMarketUnits godoc
//
//	@Summary	List market units
//	@Tags		reference
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/market-units [get]
func (h *ReferenceHandler) ListMarketUnits(c *gin.Context) {
	items, err := h.svc.MarketUnits(c.Request.Context())
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// ListCountries godoc
//
//	@Summary	List countries
//	@Tags		reference
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/countries [get]
func (h *ReferenceHandler) ListCountries(c *gin.Context) {
	items, err := h.svc.Countries(c.Request.Context())
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// CountriesForMarketUnit godoc
//
//	@Summary	List the countries of a market unit
//	@Tags		reference
//	@Produce	json
//	@Param		id	path	integer	true	"Market unit id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/market-units/{id}/countries [get]
func (h *ReferenceHandler) CountriesForMarketUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.svc.CountriesForMarketUnit(c.Request.Context(), id)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// CTsForCountry godoc
//
//	@Summary	List the CTs of a country
//	@Tags		reference
//	@Produce	json
//	@Param		id	path	integer	true	"Country id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/countries/{id}/cts [get]
func (h *ReferenceHandler) CTsForCountry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.svc.CTsForCountry(c.Request.Context(), id)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// ProjectsForCT godoc
//
//	@Summary	List the projects of a CT
//	@Tags		reference
//	@Produce	json
//	@Param		id	path	integer	true	"CT id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/cts/{id}/projects [get]
func (h *ReferenceHandler) ProjectsForCT(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.svc.ProjectsForCT(c.Request.Context(), id)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

// CompaniesForProject godoc
//
//	@Summary	List the companies of a project
//	@Tags		reference
//	@Produce	json
//	@Param		id	path	integer	true	"Project id"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{id}/companies [get]
func (h *ReferenceHandler) CompaniesForProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.svc.CompaniesForProject(c.Request.Context(), id)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}

type createRefReq struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	LinkedIDs []uint `json:"linked_ids"`
}

// CreateMarketUnit godoc
//
//	@Summary	Create a market unit
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		request	body	createRefReq	true	"Name, code and optionally linked country ids"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response
//	@Failure	409	{object}	serializer.Response
//	@Router		/market-units [post]
func (h *ReferenceHandler) CreateMarketUnit(c *gin.Context) {
	var req createRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	mu, err := h.svc.CreateMarketUnit(c.Request.Context(), req.Name, req.Code, req.LinkedIDs)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(mu))
}

// CreateCountry godoc
//
//	@Summary	Create a country
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		request	body	createRefReq	true	"Name, code and optionally linked market unit ids"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response
//	@Failure	409	{object}	serializer.Response
//	@Router		/countries [post]
func (h *ReferenceHandler) CreateCountry(c *gin.Context) {
	var req createRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	country, err := h.svc.CreateCountry(c.Request.Context(), req.Name, req.Code, req.LinkedIDs)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(country))
}

type createChildRefReq struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// CreateCT godoc
//
//	@Summary	Create a CT under a country
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		id		path	integer				true	"Country id"
//	@Param		request	body	createChildRefReq	true	"Name and code"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response
//	@Failure	409	{object}	serializer.Response
//	@Router		/countries/{id}/cts [post]
func (h *ReferenceHandler) CreateCT(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req createChildRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	ct, err := h.svc.CreateCT(c.Request.Context(), id, req.Name, req.Code)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(ct))
}

// CreateProject godoc
//
//	@Summary	Create a project under a CT
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		id		path	integer				true	"CT id"
//	@Param		request	body	createChildRefReq	true	"Name and code"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response
//	@Failure	409	{object}	serializer.Response
//	@Router		/cts/{id}/projects [post]
func (h *ReferenceHandler) CreateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req createChildRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), id, req.Name, req.Code)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(p))
}

// CreateCompany godoc
//
//	@Summary	Create a company under a project
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		id		path	integer				true	"Project id"
//	@Param		request	body	createChildRefReq	true	"Name and code"
//	@Security	BearerAuth
//	@Success	201	{object}	serializer.Response
//	@Failure	409	{object}	serializer.Response
//	@Router		/projects/{id}/companies [post]
func (h *ReferenceHandler) CreateCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req createChildRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return
	}
	company, err := h.svc.CreateCompany(c.Request.Context(), id, req.Name, req.Code)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(company))
}
