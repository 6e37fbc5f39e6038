package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/mysql"
	"karen/internal/payment/callback"
	"karen/internal/phone"
)

type ReconciliationService interface {
	Reconcile(ctx context.Context, payment dto.CallbackPayment) (*dto.ReconciliationResult, error)
}

type CallbackUseCase struct {
	reconciler       ReconciliationService
	logger           *zap.Logger
	maxRetryAttempts int
	backoffs         []time.Duration
}

func NewCallbackUseCase(reconciler ReconciliationService, logger *zap.Logger, maxRetryAttempts int) *CallbackUseCase {
	return &CallbackUseCase{
		reconciler:       reconciler,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		backoffs:         []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond},
	}
}

// Handle applies one provider callback. Failed and cancelled payments are acknowledged
// without touching the store.
func (uc *CallbackUseCase) Handle(ctx context.Context, body []byte) (*dto.ReconciliationResult, error) {
	notification, err := callback.Parse(body)
	if err != nil {
		uc.logger.Warn("rejected callback envelope")
		return nil, err
	}

	logger := uc.logger.With(zap.String("checkoutRequestId", notification.CheckoutRequestID))

	if !notification.Succeeded() {
		logger.Info("payment failed or cancelled",
			zap.Int("resultCode", notification.ResultCode),
			zap.String("resultDesc", notification.ResultDesc),
		)
		return &dto.ReconciliationResult{Outcome: dto.OutcomeIgnored}, nil
	}

	payment, err := notification.Payment()
	if err != nil {
		logger.Warn("rejected callback metadata", zap.Error(err))
		return nil, err
	}

	payment.Phone, err = phone.ToLocal(payment.RawPhone)
	if err != nil {
		logger.Warn("callback phone could not be normalized, storing raw value", zap.String("phone", payment.RawPhone))
		payment.Phone = payment.RawPhone
	}

	return uc.reconcileWithRetry(ctx, *payment, logger)
}

func (uc *CallbackUseCase) reconcileWithRetry(ctx context.Context, payment dto.CallbackPayment, logger *zap.Logger) (*dto.ReconciliationResult, error) {
	maxAttempts := uc.maxRetryAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := uc.reconciler.Reconcile(ctx, payment)
		if err == nil {
			return result, nil
		}

		if !mysql.IsDeadlock(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))
		if err := uc.sleep(ctx, attempt); err != nil {
			return nil, err
		}
	}

	logger.Error("reconciliation gave up after repeated deadlocks", zap.Int("maxAttempts", maxAttempts))
	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

// sleep waits the backoff for the given attempt with ±20% jitter.
func (uc *CallbackUseCase) sleep(ctx context.Context, attempt int) error {
	if len(uc.backoffs) == 0 {
		return nil
	}
	base := uc.backoffs[min(attempt, len(uc.backoffs)-1)]
	wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
