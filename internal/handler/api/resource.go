package api

import (
	"errors"
	"net/http"
	"time"

	"deskbook/internal/domain/resource"
	resdto "deskbook/internal/handler/dto/response"
	"deskbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResourceHandler struct {
	resourceQueries    queries.ResourceQueries
	reservationQueries queries.ReservationQueries
}

func NewResourceHandler(
	resourceQueries queries.ResourceQueries,
	reservationQueries queries.ReservationQueries,
) *ResourceHandler {
	return &ResourceHandler{
		resourceQueries:    resourceQueries,
		reservationQueries: reservationQueries,
	}
}

// @Summary List resources
// @Description List bookable desks and rooms, optionally filtered by kind
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Resource kind (desk or room)"
// @Success 200 {array} resdto.ResourceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c *gin.Context) {
	var kind *resource.Kind
	if kindStr := c.Query("kind"); kindStr != "" {
		k, err := resource.NewKind(kindStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid resource kind",
			})
			return
		}
		kind = &k
	}

	views, err := h.resourceQueries.List(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ResourceResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromResourceView(view)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get resource
// @Description Get a desk or room by kind and ID
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Resource kind (desk or room)"
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resources/{kind}/{id} [get]
func (h *ResourceHandler) GetResource(c *gin.Context) {
	ref, ok := h.refFromPath(c)
	if !ok {
		return
	}

	view, err := h.resourceQueries.GetByRef(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Resource not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}

// @Summary Get resource availability
// @Description Slot-level availability for one resource on one day
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Resource kind (desk or room)"
// @Param id path string true "Resource ID"
// @Param date query string true "Day in YYYY-MM-DD format"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resources/{kind}/{id}/availability [get]
func (h *ResourceHandler) GetAvailability(c *gin.Context) {
	ref, ok := h.refFromPath(c)
	if !ok {
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	view, err := h.reservationQueries.GetAvailability(c.Request.Context(), ref, day)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Resource not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

func (h *ResourceHandler) refFromPath(c *gin.Context) (resource.Ref, bool) {
	kind, err := resource.NewKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource kind",
		})
		return resource.Ref{}, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource ID format",
		})
		return resource.Ref{}, false
	}

	return resource.NewRef(kind, id), true
}
