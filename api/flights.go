package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/service/overbooking"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	seats       seats.SeatUseCase
	overbooking overbooking.OverbookingUseCase
}

func NewFlightHandler(seatSvc seats.SeatUseCase, overbookingSvc overbooking.OverbookingUseCase) *FlightHandler {
	return &FlightHandler{seats: seatSvc, overbooking: overbookingSvc}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/seats", h.availableSeats)
	router.GET("/:id/overbooking", h.overbookingStatus)
}

func (h *FlightHandler) availableSeats(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	filter := domain.SeatFilter{
		Class:    domain.SeatClass(c.Query("class")),
		Position: domain.SeatPosition(c.Query("position")),
	}

	available, err := h.seats.GetAvailableSeats(c.Request.Context(), flightID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, available)
}

func (h *FlightHandler) overbookingStatus(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	status, err := h.overbooking.CanAcceptBooking(c.Request.Context(), flightID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}
