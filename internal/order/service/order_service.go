package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, order domain.Order) (uint, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, item domain.OrderItem) (uint, error)
}

type OrderService struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

// CreateOrder stores the order and its items atomically and returns the order with the
// generated ids filled in.
func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		s.logger.Error("failed to insert order", zap.Error(err))
		return nil, err
	}
	order.ID = orderID

	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.OrderID = orderID
		item.ID, err = s.orderItemRepo.Insert(txCtx, tx, item)
		if err != nil {
			s.logger.Error("failed to insert order item", zap.Uint("orderId", orderID), zap.Int("productId", item.ProductID), zap.Error(err))
			return nil, err
		}
		items[i] = item
	}
	order.Items = items

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.String("paymentMethod", string(order.PaymentMethod)),
		zap.String("totalAmount", order.TotalAmount.String()),
		zap.Int("itemCount", len(items)),
	)
	return &order, nil
}
