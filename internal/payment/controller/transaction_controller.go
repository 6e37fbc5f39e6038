package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	"karen/internal/infrastructure/web"
)

type TransactionQueryUseCase interface {
	AllTransactions(ctx context.Context) ([]domain.MpesaTransaction, error)
	TransactionsByPhone(ctx context.Context, phone string) ([]domain.MpesaTransaction, error)
}

type TransactionController struct {
	useCase TransactionQueryUseCase
	logger  *zap.Logger
}

func NewTransactionController(useCase TransactionQueryUseCase, logger *zap.Logger) *TransactionController {
	return &TransactionController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *TransactionController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	txns, err := c.useCase.AllTransactions(r.Context())
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewTransactionResponses(txns), logger)
}

func (c *TransactionController) ByPhone(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	txns, err := c.useCase.TransactionsByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		web.HandleListError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewTransactionResponses(txns), logger)
}
