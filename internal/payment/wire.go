package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/infrastructure/mysql"
	orderrepo "karen/internal/order/repository"
	"karen/internal/payment/controller"
	paymentrepo "karen/internal/payment/repository"
	"karen/internal/payment/service"
	"karen/internal/payment/usecase"
)

type Module struct {
	Callback     *controller.CallbackController
	Transactions *controller.TransactionController
}

func NewModule(db *sql.DB, cfg *config.Config, publisher service.EventPublisher, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	txnRepo := paymentrepo.NewMySQLTransactionRepository(db)

	reconciler := service.NewReconciliationService(
		mysql.NewTxManager(db),
		orderRepo,
		txnRepo,
		publisher,
		logger,
		cfg.Payment.ReconcileTxTimeout,
	)

	callbackUseCase := usecase.NewCallbackUseCase(reconciler, logger, cfg.Payment.MaxRetryAttempts)
	queryUseCase := usecase.NewTransactionQueryUseCase(txnRepo)

	return &Module{
		Callback:     controller.NewCallbackController(callbackUseCase, logger),
		Transactions: controller.NewTransactionController(queryUseCase, logger),
	}
}
