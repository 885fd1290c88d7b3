package handler

import (
	"net/http"

	"tokonada/internal/config"
	"tokonada/internal/middleware"
	"tokonada/internal/repository"
	"tokonada/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ShippingHandler struct {
	uc *usecase.ShipmentUsecase
}

func NewShippingHandler(uc *usecase.ShipmentUsecase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

type CostQuoteRequest struct {
	DestinationID string `json:"destination_id"`
	Courier       string `json:"courier"`
}

func (h *ShippingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// Region lookups are public so the checkout form works before login.
	e.GET("/shipping/provinces", h.provinces)
	e.GET("/shipping/cities", h.cities)
	e.GET("/shipping/areas", h.areas)

	g := e.Group("/shipping")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.POST("/cost", h.cost)
}

func (h *ShippingHandler) provinces(c echo.Context) error {
	out, err := h.uc.GetProvinces(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) cities(c echo.Context) error {
	provinceID := c.QueryParam("province_id")
	if provinceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "province_id required"})
	}

	out, err := h.uc.GetCities(c.Request().Context(), provinceID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) areas(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q required"})
	}

	out, err := h.uc.SearchArea(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// cost quotes shipping for the caller's active cart.
func (h *ShippingHandler) cost(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CostQuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.DestinationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "destination_id required"})
	}
	if req.Courier == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "courier required"})
	}

	out, err := h.uc.QuoteForCart(c.Request().Context(), actor, req.DestinationID, req.Courier)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
