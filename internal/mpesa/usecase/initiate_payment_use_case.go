package usecase

import (
	"context"

	"go.uber.org/zap"

	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/phone"
)

const (
	messageMissingFields = "Phone, amount, and order_id are required"
	messageNoPushToken   = "Unable to retrieve access token"
	messageNoToken       = "Failed to get token"
)

type DarajaClient interface {
	AccessToken(ctx context.Context) (*dto.AccessToken, error)
	StkPush(ctx context.Context, token string, payload dto.StkPushPayload) (*dto.ProviderResponse, error)
	NewStkPushPayload(phone string, amount int64, orderRef string) dto.StkPushPayload
}

type InitiatePaymentUseCase struct {
	client DarajaClient
	logger *zap.Logger
}

func NewInitiatePaymentUseCase(client DarajaClient, logger *zap.Logger) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		client: client,
		logger: logger,
	}
}

// Initiate asks the provider to prompt the customer's handset for payment of an order.
// The provider's answer is returned as is; nothing is stored locally.
func (uc *InitiatePaymentUseCase) Initiate(ctx context.Context, req dto.InitiatePaymentRequest) (*dto.ProviderResponse, error) {
	orderRef := req.OrderID.String()
	// Whole shillings, half-up. The provider rejects anything below 1.
	amount := req.Amount.Round(0).IntPart()
	if phone.Clean(req.Phone) == "" || amount < 1 || orderRef == "" {
		return nil, apperrors.NewMissingParameterError(messageMissingFields)
	}

	msisdn, err := phone.ToInternational(req.Phone)
	if err != nil {
		return nil, err
	}

	token, err := uc.client.AccessToken(ctx)
	if err != nil {
		if _, ok := apperrors.IsAuthenticationError(err); ok {
			return nil, apperrors.NewAuthenticationError(messageNoPushToken)
		}
		return nil, err
	}

	uc.logger.Info("initiating stk push", zap.String("orderId", orderRef), zap.Int64("amount", amount))
	return uc.client.StkPush(ctx, token.AccessToken, uc.client.NewStkPushPayload(msisdn, amount, orderRef))
}

func (uc *InitiatePaymentUseCase) Token(ctx context.Context) (*dto.AccessToken, error) {
	token, err := uc.client.AccessToken(ctx)
	if err != nil {
		if _, ok := apperrors.IsAuthenticationError(err); ok {
			return nil, apperrors.NewAuthenticationError(messageNoToken)
		}
		return nil, err
	}
	return token, nil
}
