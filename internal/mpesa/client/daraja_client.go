// Package client talks to the Safaricom Daraja API: OAuth token issue and the
// "Lipa na M-Pesa Online" STK push.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	TimestampLayout     = "20060102150405"
	transactionType     = "CustomerPayBillOnline"
	maxResponseBodySize = 1 << 20
)

// eat is East Africa Time; the provider validates the password timestamp against it.
var eat = time.FixedZone("EAT", 3*60*60)

type DarajaClient struct {
	cfg        config.MpesaConfig
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func NewDarajaClient(cfg config.MpesaConfig, logger *zap.Logger) *DarajaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &DarajaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// AccessToken requests a short-lived OAuth token with the consumer key and secret.
func (c *DarajaClient) AccessToken(ctx context.Context) (*dto.AccessToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("building token request", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("token request failed", zap.Error(err))
		return nil, apperrors.NewNetworkError("requesting access token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("token request rejected", zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewAuthenticationError(fmt.Sprintf("token request rejected with status %d", resp.StatusCode))
	}

	var token dto.AccessToken
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&token); err != nil {
		return nil, apperrors.NewAuthenticationError("token response is not valid JSON")
	}
	if token.AccessToken == "" {
		return nil, apperrors.NewAuthenticationError("token response has no access_token")
	}

	return &token, nil
}

// StkPush sends the payment prompt. Any HTTP status is returned to the caller together
// with the raw body; only transport failures and non-JSON bodies are errors.
func (c *DarajaClient) StkPush(ctx context.Context, token string, payload dto.StkPushPayload) (*dto.ProviderResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("encoding stk push payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("building stk push request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("stk push request failed", zap.String("accountReference", payload.AccountReference), zap.Error(err))
		return nil, apperrors.NewNetworkError("sending stk push", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, apperrors.NewNetworkError("reading stk push response", err)
	}
	if !json.Valid(raw) {
		c.logger.Error("stk push returned a non-JSON body", zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewInternalError(fmt.Sprintf("stk push returned non-JSON body with status %d", resp.StatusCode), nil)
	}

	c.logger.Info("stk push sent",
		zap.String("accountReference", payload.AccountReference),
		zap.Int("status", resp.StatusCode),
	)
	return &dto.ProviderResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}

// NewStkPushPayload builds the push request for an international phone number.
func (c *DarajaClient) NewStkPushPayload(phone string, amount int64, orderRef string) dto.StkPushPayload {
	timestamp := c.Timestamp()

	return dto.StkPushPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.Password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  orderRef,
		TransactionDesc:   "Payment for Order " + orderRef,
	}
}

// Timestamp is the current time in EAT, YYYYMMDDHHMMSS.
func (c *DarajaClient) Timestamp() string {
	return c.now().In(eat).Format(TimestampLayout)
}

func (c *DarajaClient) Password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.PassKey + timestamp))
}
