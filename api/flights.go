package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	Airline        string `json:"airline"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	BaseFareCents  int64  `json:"base_fare_cents"`
	Status         string `json:"status"`
}

type updateFlightStatusRequest struct {
	Status string `json:"status"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/search", h.search)
	router.GET("/:number", h.get)
	router.POST("/", h.create)
	router.PATCH("/:number/status", h.updateStatus)
}

func (h *FlightHandler) list(c *gin.Context) {
	flightList, err := h.service.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(flightList))
}

func (h *FlightHandler) search(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	passengers, err := strconv.Atoi(c.DefaultQuery("passengers", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passengers"})
		return
	}

	flightList, err := h.service.SearchAvailable(c.Request.Context(), origin, destination, date, passengers)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(flightList))
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.CreateFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) updateStatus(c *gin.Context) {
	var req updateFlightStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("number"), domain.FlightStatus(req.Status)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		Number:         f.Number,
		Airline:        f.Airline,
		Origin:         f.Origin,
		Destination:    f.Destination,
		DepartureTime:  f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:    f.ArrivalTime.Format(time.RFC3339),
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		BaseFareCents:  f.BaseFareCents,
		Status:         string(f.Status),
	}
}

func toFlightResponses(flightList []domain.Flight) []flightResponse {
	out := make([]flightResponse, len(flightList))
	for i := range flightList {
		out[i] = toFlightResponse(&flightList[i])
	}
	return out
}
