package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	SeatAssignment string    `json:"seat_assignment"`
}

type addOnRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type paymentRequest struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Method         string `json:"method"`
}

type createBookingRequest struct {
	CustomerID   string             `json:"customer_id"`
	FlightNumber string             `json:"flight_number"`
	Passengers   []passengerRequest `json:"passengers"`
	AddOns       []addOnRequest     `json:"add_ons"`
	Payment      *paymentRequest    `json:"payment"`
}

type cancelBookingRequest struct {
	CustomerID string `json:"customer_id"`
}

type modifyBookingRequest struct {
	FlightNumber string `json:"flight_number"`
}

type bookingResponse struct {
	ID              string `json:"id"`
	Reference       string `json:"reference,omitempty"`
	CustomerID      string `json:"customer_id"`
	FlightNumber    string `json:"flight_number"`
	Status          string `json:"status"`
	Passengers      int    `json:"passengers"`
	TotalPriceCents int64  `json:"total_price_cents"`
	CreatedAt       string `json:"created_at"`
	ConfirmedAt     string `json:"confirmed_at,omitempty"`
	CancelledAt     string `json:"cancelled_at,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/cancel", h.cancel)
	router.PATCH("/:id/flight", h.modify)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		CustomerID:   req.CustomerID,
		FlightNumber: req.FlightNumber,
	}
	for _, p := range req.Passengers {
		input.Passengers = append(input.Passengers, domain.Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			SeatAssignment: p.SeatAssignment,
		})
	}
	for _, a := range req.AddOns {
		input.AddOns = append(input.AddOns, domain.AddOn{Name: a.Name, PriceCents: a.PriceCents})
	}
	if req.Payment != nil {
		input.Payment = &domain.PaymentDetails{
			CardholderName:   req.Payment.CardholderName,
			CardNumberMasked: domain.MaskCardNumber(req.Payment.CardNumber),
			Method:           domain.PaymentMethod(req.Payment.Method),
		}
	}

	created, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

// list serves both lookups: /bookings?customer_id=... and
// /bookings?reference=...
func (h *BookingHandler) list(c *gin.Context) {
	if ref := c.Query("reference"); ref != "" {
		b, err := h.service.GetByReference(c.Request.Context(), ref)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(b))
		return
	}

	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id or reference is required"})
		return
	}
	bookings, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]bookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), req.CustomerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.BookingStatusCancelled)})
}

func (h *BookingHandler) modify(c *gin.Context) {
	var req modifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modified, err := h.service.ModifyBooking(c.Request.Context(), c.Param("id"), req.FlightNumber)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(modified))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		CustomerID:      b.CustomerID,
		FlightNumber:    b.FlightNumber,
		Status:          string(b.Status),
		Passengers:      b.SeatCount(),
		TotalPriceCents: b.TotalPriceCents,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if !b.ConfirmedAt.IsZero() {
		resp.ConfirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	if !b.CancelledAt.IsZero() {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}
