package handlers

import (
	"net/http"

	"hajj_backend/internal/services"
	"hajj_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	auth                  gin.HandlerFunc
	bookingPaymentService services.BookingPaymentService
	bookingService        services.BookingService
}

func NewBookingHandler(
	base *BaseHandler,
	auth gin.HandlerFunc,
	bookingPaymentService services.BookingPaymentService,
	bookingService services.BookingService,
) *BookingHandler {
	return &BookingHandler{
		BaseHandler:           base,
		auth:                  auth,
		bookingPaymentService: bookingPaymentService,
		bookingService:        bookingService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(h.auth)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
	}
}

// CreateBooking godoc
// @Summary Создать бронь и начать оплату
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Данные брони"
// @Success 201 {object} dto.BookingPaymentResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.bookingPaymentService.InitiateBookingPayment(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetBooking godoc
// @Summary Статус брони и попыток оплаты
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID брони"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.bookingService.GetUserBooking(h.GetDB(c), userID, bookingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
