package handler

import (
	"net/http"
	"strconv"

	"tokonada/internal/config"
	"tokonada/internal/middleware"
	"tokonada/internal/repository"
	"tokonada/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PlaceOrderRequest struct {
	RecipientName  string `json:"recipient_name" validate:"required,max=255"`
	RecipientPhone string `json:"recipient_phone" validate:"required,max=32"`
	Address        string `json:"address" validate:"required"`
	AreaID         string `json:"area_id" validate:"required"`
	City           string `json:"city" validate:"required"`
	Province       string `json:"province" validate:"required"`
	PostalCode     string `json:"postal_code" validate:"required,max=10"`
	Courier        string `json:"courier" validate:"required"`
	Service        string `json:"service" validate:"required"`
	ShippingCost   int64  `json:"shipping_cost" validate:"gte=0"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.placeOrder)
	g.GET("", h.listMine)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed"})
	}

	// Retried submissions reuse the same key so the order is created once.
	// Clients that do not send one get a fresh key, i.e. no protection.
	idemKey := c.Request().Header.Get("X-Idempotency-Key")
	if idemKey == "" {
		idemKey = uuid.NewString()
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), actor, usecase.PlaceOrderInput{
		IdempotencyKey: idemKey,
		Destination: usecase.DestinationInput{
			RecipientName:  req.RecipientName,
			RecipientPhone: req.RecipientPhone,
			Address:        req.Address,
			AreaID:         req.AreaID,
			City:           req.City,
			Province:       req.Province,
			PostalCode:     req.PostalCode,
			Courier:        req.Courier,
			Service:        req.Service,
			ShippingCost:   req.ShippingCost,
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), actor, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
