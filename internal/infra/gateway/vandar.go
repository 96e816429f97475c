// Package gateway talks to the Vandar IPG over HTTP.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/domain/model"
	"github.com/spsina/bookStore/internal/usecase"
)

const (
	sendPath   = "/api/v3/send"
	verifyPath = "/api/v3/verify"

	statusOK = 1

	// Vandar takes Rial; amounts here are Toman.
	rialPerToman = 10
)

type VandarOptions struct {
	APIKey  string
	BaseURL string // API origin, e.g. https://ipg.vandar.io
	IPGURL  string // payment page origin
	Timeout time.Duration
	Breaker BreakerSettings
}

type VandarClient struct {
	apiKey  string
	baseURL string
	ipgURL  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewVandarClient(opts VandarOptions, logger *zap.Logger) *VandarClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VandarClient{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		ipgURL:  strings.TrimRight(opts.IPGURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb:      newBreaker("vandar", opts.Breaker, logger),
		logger:  logger,
	}
}

type sendResponse struct {
	Status int             `json:"status"`
	Token  string          `json:"token"`
	Errors json.RawMessage `json:"errors"`
}

type verifyResponse struct {
	Status      int             `json:"status"`
	Amount      json.Number     `json:"amount"`
	TransID     json.Number     `json:"transId"`
	CardNumber  string          `json:"cardNumber"`
	PaymentDate string          `json:"paymentDate"`
	CID         *string         `json:"cid"`
	RefNumber   *string         `json:"refnumber"`
	TracingCode *string         `json:"trackingCode"`
	Message     string          `json:"message"`
	Errors      json.RawMessage `json:"errors"`
}

func (c *VandarClient) Prepare(ctx context.Context, amount int64, callbackURL string) (string, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("amount", fmt.Sprintf("%d", amount*rialPerToman))
	form.Set("callback_url", callbackURL)

	return executeWithBreaker(c.cb, func() (string, error) {
		body, err := c.post(ctx, sendPath, form)
		if err != nil {
			return "", err
		}

		var res sendResponse
		if err := json.Unmarshal(body, &res); err != nil {
			return "", fmt.Errorf("%w: decode send response: %v", usecase.ErrGatewayUnavailable, err)
		}
		if res.Status != statusOK || res.Token == "" {
			return "", &usecase.GatewayRejectedError{Messages: decodeMessages(res.Errors)}
		}
		return res.Token, nil
	})
}

func (c *VandarClient) Verify(ctx context.Context, token string) (usecase.GatewayVerifyResult, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("token", token)

	return executeWithBreaker(c.cb, func() (usecase.GatewayVerifyResult, error) {
		body, err := c.post(ctx, verifyPath, form)
		if err != nil {
			return usecase.GatewayVerifyResult{}, err
		}

		var res verifyResponse
		if err := json.Unmarshal(body, &res); err != nil {
			return usecase.GatewayVerifyResult{}, fmt.Errorf("%w: decode verify response: %v", usecase.ErrGatewayUnavailable, err)
		}

		out := usecase.GatewayVerifyResult{
			Success: res.Status == statusOK,
			Status:  res.Status,
			Payment: model.PaymentResult{
				TransID:     res.TransID.String(),
				CardNumber:  res.CardNumber,
				PaymentDate: res.PaymentDate,
				CID:         deref(res.CID),
				RefNumber:   deref(res.RefNumber),
				TracingCode: deref(res.TracingCode),
				Raw:         body,
			},
		}
		if !out.Success {
			out.Messages = decodeMessages(res.Errors)
			if len(out.Messages) == 0 && res.Message != "" {
				out.Messages = []string{res.Message}
			}
		}
		return out, nil
	})
}

func (c *VandarClient) RedirectURL(token string) string {
	return c.ipgURL + "/v3/" + url.PathEscape(token)
}

// post sends a form and returns the body. 4xx bodies are returned as is
// because Vandar reports refusals that way.
func (c *VandarClient) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", usecase.ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("vandar request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", usecase.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", usecase.ErrGatewayUnavailable, err)
	}

	c.logger.Debug("vandar response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: http %d", usecase.ErrGatewayUnavailable, resp.StatusCode)
	}
	return body, nil
}

// decodeMessages accepts the shapes Vandar uses for errors: a list, a
// single string, or an object of lists.
func decodeMessages(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}

	var byField map[string][]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		out := make([]string, 0, len(byField))
		for _, msgs := range byField {
			out = append(out, msgs...)
		}
		return out
	}

	return []string{string(raw)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
