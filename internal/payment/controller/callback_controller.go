package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karen/internal/dto"
	"karen/internal/infrastructure/web"
	"karen/internal/payment/callback"
)

const maxCallbackBodyBytes = 1 << 20

type CallbackUseCase interface {
	Handle(ctx context.Context, body []byte) (*dto.ReconciliationResult, error)
}

type CallbackController struct {
	useCase CallbackUseCase
	logger  *zap.Logger
}

func NewCallbackController(useCase CallbackUseCase, logger *zap.Logger) *CallbackController {
	return &CallbackController{
		useCase: useCase,
		logger:  logger,
	}
}

// Callback receives the provider's STK push result. Business failures are acknowledged
// with 200 so the provider stops retrying; malformed data gets a 400.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while processing callback", zap.Any("panic", rec), zap.Stack("stack"))
			web.WriteError(w, http.StatusInternalServerError, web.MessageUnexpected, logger)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("callback body too large", zap.Int64("limit", tooLarge.Limit))
			web.WriteError(w, http.StatusBadRequest, callback.MessageInvalidEnvelope, logger)
			return
		}
		logger.Error("failed to read callback body", zap.Error(err))
		web.WriteError(w, http.StatusInternalServerError, web.MessageUnexpected, logger)
		return
	}
	logger.Info("received M-Pesa callback", zap.Int("bytes", len(body)))

	result, err := c.useCase.Handle(r.Context(), body)
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteMessage(w, http.StatusOK, result.Message(), logger)
}
