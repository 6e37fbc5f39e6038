package service

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx mysql.DBTX, id uint) (*domain.Order, error)
	FindUnpaidMatchForUpdate(ctx context.Context, tx mysql.DBTX, phones []string, amount decimal.Decimal) (*domain.Order, error)
	MarkPaid(ctx context.Context, tx mysql.DBTX, id uint, receiptNumber, customerPhone string) error
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, txn domain.MpesaTransaction) (uint, error)
}

type EventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, event dto.PaymentConfirmedEvent) error
}

// ReconciliationService records a confirmed payment and settles the matching order in a
// single database transaction, so a callback is applied entirely or not at all.
type ReconciliationService struct {
	db        TransactionManager
	orderRepo OrderRepository
	txnRepo   TransactionRepository
	publisher EventPublisher
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewReconciliationService(
	db TransactionManager,
	orderRepo OrderRepository,
	txnRepo TransactionRepository,
	publisher EventPublisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ReconciliationService {
	return &ReconciliationService{
		db:        db,
		orderRepo: orderRepo,
		txnRepo:   txnRepo,
		publisher: publisher,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *ReconciliationService) Reconcile(ctx context.Context, payment dto.CallbackPayment) (*dto.ReconciliationResult, error) {
	logger := s.logger.With(zap.String("receiptNumber", payment.ReceiptNumber))

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// No-op once committed.
	defer tx.Rollback()

	// Direct correlation through the account reference set at initiation time.
	order, err := s.resolveReferencedOrder(txCtx, tx, payment.AccountReference, logger)
	if err != nil {
		return nil, err
	}

	txn := domain.MpesaTransaction{
		ReceiptNumber:     payment.ReceiptNumber,
		PhoneNumber:       payment.Phone,
		Amount:            payment.Amount,
		TransactionDate:   payment.TransactionDate,
		MerchantRequestID: payment.MerchantRequestID,
		CheckoutRequestID: payment.CheckoutRequestID,
		ResultCode:        payment.ResultCode,
		ResultDescription: payment.ResultDesc,
	}
	if order != nil {
		txn.OrderID = &order.ID
	}

	txnID, err := s.txnRepo.Insert(txCtx, tx, txn)
	if err != nil {
		if _, ok := apperrors.IsDuplicateReceiptError(err); ok {
			logger.Warn("duplicate payment callback")
		} else {
			logger.Error("failed to record transaction", zap.Error(err))
		}
		return nil, err
	}

	matchedBy := dto.MatchByAccountReference
	if order == nil {
		matchedBy = dto.MatchByPhoneAndAmount
		order, err = s.findFallbackMatch(txCtx, tx, payment)
		if err != nil {
			logger.Error("fallback order lookup failed", zap.Error(err))
			return nil, err
		}
	}

	result := &dto.ReconciliationResult{
		Outcome:       dto.OutcomeUnmatched,
		TransactionID: txnID,
		ReceiptNumber: payment.ReceiptNumber,
	}

	if order != nil {
		if err := s.orderRepo.MarkPaid(txCtx, tx, order.ID, payment.ReceiptNumber, payment.Phone); err != nil {
			logger.Error("failed to mark order paid", zap.Uint("orderId", order.ID), zap.Error(err))
			return nil, err
		}
		result.Outcome = dto.OutcomeMatched
		result.OrderID = order.ID
		result.MatchedBy = matchedBy
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	if result.Outcome == dto.OutcomeMatched {
		logger.Info("order marked paid",
			zap.Uint("orderId", result.OrderID),
			zap.String("matchedBy", string(result.MatchedBy)),
			zap.String("amount", payment.Amount.String()),
		)
		s.publishConfirmed(ctx, payment, result, logger)
	} else {
		logger.Info("payment recorded without matching order",
			zap.String("phone", payment.Phone),
			zap.String("amount", payment.Amount.String()),
		)
	}

	return result, nil
}

// resolveReferencedOrder returns nil without error when the reference is absent, not an
// order id, or points to an order that does not exist.
func (s *ReconciliationService) resolveReferencedOrder(ctx context.Context, tx mysql.DBTX, reference string, logger *zap.Logger) (*domain.Order, error) {
	if reference == "" {
		return nil, nil
	}

	orderID, err := strconv.ParseUint(reference, 10, 64)
	if err != nil || orderID == 0 {
		logger.Warn("account reference is not an order id", zap.String("accountReference", reference))
		return nil, nil
	}

	order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, uint(orderID))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			logger.Warn("order referenced by payment not found", zap.Uint64("orderId", orderID))
			return nil, nil
		}
		logger.Error("failed to load referenced order", zap.Uint64("orderId", orderID), zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (s *ReconciliationService) findFallbackMatch(ctx context.Context, tx mysql.DBTX, payment dto.CallbackPayment) (*domain.Order, error) {
	phones := []string{payment.Phone}
	if payment.RawPhone != payment.Phone {
		phones = append(phones, payment.RawPhone)
	}

	order, err := s.orderRepo.FindUnpaidMatchForUpdate(ctx, tx, phones, payment.Amount)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (s *ReconciliationService) publishConfirmed(ctx context.Context, payment dto.CallbackPayment, result *dto.ReconciliationResult, logger *zap.Logger) {
	event := dto.PaymentConfirmedEvent{
		OrderID:         result.OrderID,
		ReceiptNumber:   payment.ReceiptNumber,
		PhoneNumber:     payment.Phone,
		Amount:          payment.Amount.StringFixed(2),
		TransactionDate: payment.TransactionDate,
		MatchedBy:       result.MatchedBy,
	}

	if err := s.publisher.PublishPaymentConfirmed(ctx, event); err != nil {
		logger.Warn("failed to publish payment confirmation", zap.Uint("orderId", result.OrderID), zap.Error(err))
	}
}
