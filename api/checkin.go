package api

import (
	"net/http"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
)

type CheckInHandler struct {
	service checkin.CheckInUseCase
}

type lookupRequest struct {
	PNR      string `json:"pnr" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
}

func NewCheckInHandler(service checkin.CheckInUseCase) *CheckInHandler {
	return &CheckInHandler{service: service}
}

func (h *CheckInHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.checkIn)
	router.POST("/lookup", h.lookup)
}

func (h *CheckInHandler) checkIn(c *gin.Context) {
	var req domain.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PNR == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pnr and last_name are required"})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	resp, err := h.service.CheckIn(c.Request.Context(), req, idempotencyKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(resp.StatusCode, resp.Result)
}

func (h *CheckInHandler) lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := h.service.LookupBooking(c.Request.Context(), req.PNR, req.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found. Please check PNR and last name."})
		return
	}

	c.JSON(http.StatusOK, details)
}
