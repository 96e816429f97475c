package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spsina/bookStore/internal/usecase"
)

// read-only catalog
type BookHandler struct {
	uc *usecase.BookUsecase
}

func NewBookHandler(uc *usecase.BookUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

func (h *BookHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/book/list", h.list)
	g.GET("/book/:book_id", h.detail)
}

func (h *BookHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
