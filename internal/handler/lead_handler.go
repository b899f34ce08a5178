package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusales/leads-api/internal/dto"
	"github.com/edusales/leads-api/internal/models"
	appErrors "github.com/edusales/leads-api/pkg/errors"
	"github.com/edusales/leads-api/pkg/response"
)

// LeadService abstracts the lead use-cases consumed by the handler.
type LeadService interface {
	Create(ctx context.Context, req dto.CreateLeadRequest) (int64, error)
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.LeadDetail, error)
}

// LeadHandler exposes the lead endpoints.
type LeadHandler struct {
	leads        LeadService
	defaultLimit int
}

// NewLeadHandler constructs LeadHandler.
func NewLeadHandler(leads LeadService, defaultLimit int) *LeadHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &LeadHandler{leads: leads, defaultLimit: defaultLimit}
}

// RegisterRoutes mounts the lead endpoints on the given router group.
func (h *LeadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.List)
	rg.GET("/leads/:id", h.Get)
	rg.POST("/leads", h.Create)
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param limit query int false "Page size (default 10)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	var filter models.LeadFilter

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultLimit)))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, appErrors.MsgIllegalPagination))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, appErrors.MsgIllegalPagination))
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	leads, pagination, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, pagination)
}

// Get godoc
// @Summary Get a lead with its enrollment history
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leads/{id} [get]
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid lead id"))
		return
	}

	lead, err := h.leads.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead, nil)
}

// Create godoc
// @Summary Create a lead with its nested enrollment history
// @Tags Leads
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeadRequest true "Lead document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	leadID, err := h.leads.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreateLeadResponse{LeadID: leadID})
}
