package usecase

import (
	"context"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/phone"
)

type TransactionRepository interface {
	FindAll(ctx context.Context) ([]domain.MpesaTransaction, error)
	FindByPhones(ctx context.Context, phones ...string) ([]domain.MpesaTransaction, error)
}

type TransactionQueryUseCase struct {
	txnRepo TransactionRepository
}

func NewTransactionQueryUseCase(txnRepo TransactionRepository) *TransactionQueryUseCase {
	return &TransactionQueryUseCase{txnRepo: txnRepo}
}

func (uc *TransactionQueryUseCase) AllTransactions(ctx context.Context) ([]domain.MpesaTransaction, error) {
	return uc.txnRepo.FindAll(ctx)
}

// TransactionsByPhone matches either stored form of the number.
func (uc *TransactionQueryUseCase) TransactionsByPhone(ctx context.Context, rawPhone string) ([]domain.MpesaTransaction, error) {
	if phone.Clean(rawPhone) == "" {
		return nil, apperrors.NewMissingParameterError("Phone number is required (?phone=...)")
	}

	local, international, err := phone.Variants(rawPhone)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.FindByPhones(ctx, local, international)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError("No transactions found for this phone number.")
	}
	return txns, nil
}
