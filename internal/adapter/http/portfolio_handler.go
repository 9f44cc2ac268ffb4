package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-origination/internal/usecase/portfolio"
)

type PortfolioHandler struct{ agg *portfolio.Aggregator }

func NewPortfolioHandler(agg *portfolio.Aggregator) *PortfolioHandler {
	return &PortfolioHandler{agg: agg}
}

func (h *PortfolioHandler) Stats(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	s, err := h.agg.Compute(c.Request().Context(), who)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
