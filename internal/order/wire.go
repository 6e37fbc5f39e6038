package order

import (
	"database/sql"

	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/infrastructure/mysql"
	"karen/internal/order/controller"
	orderrepo "karen/internal/order/repository"
	"karen/internal/order/service"
	"karen/internal/order/usecase"
	productrepo "karen/internal/product/repository"
	productservice "karen/internal/product/service"
)

type Module struct {
	Orders    *controller.OrderController
	Locations *controller.LocationController
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	locationRepo := orderrepo.NewMySQLLocationRepository(db)
	productSvc := productservice.NewService(productrepo.NewMySQLRepository(db))

	orderSvc := service.NewOrderService(
		mysql.NewTxManager(db),
		orderRepo,
		orderItemRepo,
		logger,
		cfg.Order.CreateTxTimeout,
	)

	createUseCase := usecase.NewCreateOrderUseCase(orderSvc, productSvc, logger)
	queryUseCase := usecase.NewOrderQueryUseCase(orderRepo, orderItemRepo)
	locationUseCase := usecase.NewLocationUseCase(locationRepo)

	return &Module{
		Orders:    controller.NewOrderController(createUseCase, queryUseCase, logger),
		Locations: controller.NewLocationController(locationUseCase, logger),
	}
}
