package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spsina/bookStore/internal/middleware"
	"github.com/spsina/bookStore/internal/usecase"
)

type BasketHandler struct {
	uc *usecase.BasketUsecase
}

func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

type BasketItemRequest struct {
	Book  int64 `json:"book" validate:"required,gt=0"`
	Count int64 `json:"count" validate:"required,min=1"`
}

type CreateBasketRequest struct {
	Items       []BasketItemRequest `json:"items" validate:"required,min=1,dive"`
	IsGift      bool                `json:"is_gift"`
	Description string              `json:"description" validate:"max=1024"`
}

// every /basket route needs a login
func (h *BasketHandler) RegisterRoutes(g *echo.Group, jwtSecret string) {
	b := g.Group("/basket")
	b.Use(middleware.AuthJWT(jwtSecret))

	b.POST("/create", h.create)
	b.GET("/:id", h.detail)
}

func (h *BasketHandler) create(c echo.Context) error {
	profileID, ok := getUserProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateBasketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	in := usecase.CreateBasketInput{
		Items:       make([]usecase.BasketItemInput, 0, len(req.Items)),
		IsGift:      req.IsGift,
		Description: req.Description,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.BasketItemInput{BookID: it.Book, Count: it.Count})
	}

	out, err := h.uc.CreateBasket(c.Request().Context(), profileID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *BasketHandler) detail(c echo.Context) error {
	profileID, ok := getUserProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetBasket(c.Request().Context(), profileID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
