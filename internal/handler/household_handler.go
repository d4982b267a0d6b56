package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/service"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/response"
)

// HouseholdHandler exposes the public intake endpoint and the admin
// family-review endpoints.
type HouseholdHandler struct {
	households *service.HouseholdService
	metrics    *service.MetricsService
}

func NewHouseholdHandler(households *service.HouseholdService, metrics *service.MetricsService) *HouseholdHandler {
	return &HouseholdHandler{households: households, metrics: metrics}
}

// SubmitCheckin godoc
// @Summary      Submit a family check-in
// @Description  Saves a new household registration from the public intake form.
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitCheckinRequest  true  "Check-in form"
// @Success      201      {object}  response.Envelope{data=models.Household}
// @Failure      400      {object}  response.Envelope
// @Router       /checkins [post]
func (h *HouseholdHandler) SubmitCheckin(c *gin.Context) {
	var req service.SubmitCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	rec, err := h.households.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCheckin()
	response.Created(c, rec)
}

// ListFamilies godoc
// @Summary      List registered families
// @Description  Returns all families newest first, optionally filtered by an accent-insensitive search over parent names, neighborhood, housing type and child names.
// @Tags         families
// @Produce      json
// @Security     BearerAuth
// @Param        q  query     string  false  "Search query"
// @Success      200  {object}  response.Envelope{data=[]models.Household}
// @Failure      401  {object}  response.Envelope
// @Router       /families [get]
func (h *HouseholdHandler) ListFamilies(c *gin.Context) {
	records, cacheHit, err := h.households.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{
		"count":     len(records),
		"cache_hit": cacheHit,
	})
}

// GetFamily godoc
// @Summary      Get a family record
// @Tags         families
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Record id"
// @Success      200  {object}  response.Envelope{data=models.Household}
// @Failure      404  {object}  response.Envelope
// @Router       /families/{id} [get]
func (h *HouseholdHandler) GetFamily(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.households.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// GetFamilyForm godoc
// @Summary      Get a family record as an editable form
// @Description  Hydrates the edit form from the persisted record, defaulting null fields.
// @Tags         families
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Record id"
// @Success      200  {object}  response.Envelope{data=service.HouseholdEditView}
// @Failure      404  {object}  response.Envelope
// @Router       /families/{id}/form [get]
func (h *HouseholdHandler) GetFamilyForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.households.GetForEdit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// UpdateFamily godoc
// @Summary      Update a family record
// @Description  Fully replaces the record's mutable fields from an edited form.
// @Tags         families
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                              true  "Record id"
// @Param        payload  body      service.UpdateHouseholdRequest  true  "Edited form"
// @Success      200      {object}  response.Envelope{data=models.Household}
// @Failure      400      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /families/{id} [put]
func (h *HouseholdHandler) UpdateFamily(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	rec, err := h.households.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// DeleteFamily godoc
// @Summary      Delete a family record
// @Description  Permanently removes the record. There is no soft delete or undo.
// @Tags         families
// @Security     BearerAuth
// @Param        id  path  int  true  "Record id"
// @Success      204
// @Failure      404  {object}  response.Envelope
// @Router       /families/{id} [delete]
func (h *HouseholdHandler) DeleteFamily(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.households.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid record id"))
		return 0, false
	}
	return id, true
}
