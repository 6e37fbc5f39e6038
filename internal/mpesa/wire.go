package mpesa

import (
	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/mpesa/client"
	"karen/internal/mpesa/controller"
	"karen/internal/mpesa/usecase"
)

func NewModule(cfg *config.Config, logger *zap.Logger) *controller.MpesaController {
	darajaClient := client.NewDarajaClient(cfg.Mpesa, logger)
	useCase := usecase.NewInitiatePaymentUseCase(darajaClient, logger)
	return controller.NewMpesaController(useCase, logger)
}
