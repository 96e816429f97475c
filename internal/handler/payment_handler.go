package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/logging"
	"github.com/spsina/bookStore/internal/usecase"
)

const verifyRedirectPath = "/api/v1/payment/verify-redirect/"

type PaymentHandler struct {
	uc            *usecase.PaymentUsecase
	publicBaseURL string
	storefrontURL string
}

// publicBaseURL may be empty; the callback is then built from the request.
func NewPaymentHandler(uc *usecase.PaymentUsecase, publicBaseURL, storefrontURL string) *PaymentHandler {
	return &PaymentHandler{
		uc:            uc,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		storefrontURL: strings.TrimRight(storefrontURL, "/"),
	}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group) {
	p := g.Group("/payment")
	p.GET("/make/:internal_id", h.make)
	p.GET("/verify/:internal_id", h.verify)
	p.GET("/verify-redirect/:internal_id", h.verifyRedirect)
}

func (h *PaymentHandler) make(c echo.Context) error {
	internalID := c.Param("internal_id")

	out, err := h.uc.MakePayment(c.Request().Context(), internalID, h.callbackURL(c, internalID))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// verify answers 200 with the invoice once it is PAYED and 400 with the
// same body otherwise.
func (h *PaymentHandler) verify(c echo.Context) error {
	out, err := h.uc.VerifyPayment(c.Request().Context(), c.Param("internal_id"))
	if err != nil {
		return writeError(c, err)
	}
	if !out.Payed {
		return c.JSON(http.StatusBadRequest, out.Invoice)
	}
	return c.JSON(http.StatusOK, out.Invoice)
}

// verifyRedirect is the gateway callback. The buyer's browser lands here,
// so every outcome ends in a redirect to the storefront.
func (h *PaymentHandler) verifyRedirect(c echo.Context) error {
	internalID := c.Param("internal_id")

	status := "failed"
	out, err := h.uc.VerifyPayment(c.Request().Context(), internalID)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("verify on callback failed",
			zap.String("invoice", internalID),
			zap.Error(err),
		)
	} else if out.Payed {
		status = "success"
	}

	q := url.Values{}
	q.Set("status", status)
	q.Set("invoice", internalID)
	return c.Redirect(http.StatusFound, h.storefrontURL+"/payment/result?"+q.Encode())
}

func (h *PaymentHandler) callbackURL(c echo.Context, internalID string) string {
	base := h.publicBaseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + verifyRedirectPath + url.PathEscape(internalID)
}
