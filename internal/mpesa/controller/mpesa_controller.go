package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karen/internal/dto"
	"karen/internal/infrastructure/web"
)

const maxRequestBodyBytes = 1 << 16

type InitiatePaymentUseCase interface {
	Initiate(ctx context.Context, req dto.InitiatePaymentRequest) (*dto.ProviderResponse, error)
	Token(ctx context.Context) (*dto.AccessToken, error)
}

type MpesaController struct {
	useCase InitiatePaymentUseCase
	logger  *zap.Logger
}

func NewMpesaController(useCase InitiatePaymentUseCase, logger *zap.Logger) *MpesaController {
	return &MpesaController{
		useCase: useCase,
		logger:  logger,
	}
}

// StkPush relays the provider's status code and body to the caller.
func (c *MpesaController) StkPush(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.InitiatePaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		web.WriteError(w, http.StatusBadRequest, "request body must be valid JSON", logger)
		return
	}

	resp, err := c.useCase.Initiate(r.Context(), req)
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		logger.Error("failed to write provider response", zap.Error(err))
	}
}

func (c *MpesaController) Token(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token, err := c.useCase.Token(r.Context())
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, token, logger)
}
