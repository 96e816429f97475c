package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spsina/bookStore/internal/usecase"
)

type PhoneAuthHandler struct {
	uc *usecase.PhoneAuthUsecase
}

func NewPhoneAuthHandler(uc *usecase.PhoneAuthUsecase) *PhoneAuthHandler {
	return &PhoneAuthHandler{uc: uc}
}

type SendCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,ir_phone"`
}

type VerifyCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,ir_phone"`
	Code        string `json:"code" validate:"required"`
}

func (h *PhoneAuthHandler) RegisterRoutes(g *echo.Group) {
	p := g.Group("/user-profile")
	p.POST("/send-code", h.sendCode)
	p.POST("/verify", h.verify)
}

func (h *PhoneAuthHandler) sendCode(c echo.Context) error {
	var req SendCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.SendCode(c.Request().Context(), req.PhoneNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PhoneAuthHandler) verify(c echo.Context) error {
	var req VerifyCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.VerifyCode(c.Request().Context(), req.PhoneNumber, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
