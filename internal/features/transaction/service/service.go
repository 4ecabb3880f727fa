package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	creatorrepo "tiponx-backend/internal/features/creator/repository"
	"tiponx-backend/internal/features/transaction/models"
	"tiponx-backend/internal/features/transaction/repository"
)

const defaultListLimit = 50

// PriceQuoter resolves a token symbol to its current USD price. The price
// feature provides the implementation.
type PriceQuoter interface {
	USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// RecordRequest describes one confirmed on-chain tip. USDValue is optional;
// when absent the server prices the amount itself.
type RecordRequest struct {
	SenderHandle   string          `json:"senderHandle"`
	ReceiverHandle string          `json:"receiverHandle"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Chain          string          `json:"chain"`
	TxHash         string          `json:"txHash"`
	USDValue       decimal.Decimal `json:"usdValue"`
}

type TransactionService interface {
	Record(ctx context.Context, req *RecordRequest) (*models.Transaction, error)
	List(ctx context.Context, limit int) ([]*models.Transaction, error)
	ListBySender(ctx context.Context, senderHandle string, limit int) ([]*models.Transaction, error)
	ListByReceiver(ctx context.Context, receiverHandle string, limit int) ([]*models.Transaction, error)
}

type transactionService struct {
	repo     repository.TransactionRepository
	creators creatorrepo.CreatorRepository
	prices   PriceQuoter
}

func NewTransactionService(repo repository.TransactionRepository, creators creatorrepo.CreatorRepository, prices PriceQuoter) TransactionService {
	return &transactionService{repo: repo, creators: creators, prices: prices}
}

// Record appends a tip to the ledger. Tips sent to a handle that has no
// claimed profile yet are flagged pending_claim so the claim flow can settle
// them later.
func (s *transactionService) Record(ctx context.Context, req *RecordRequest) (*models.Transaction, error) {
	if req.SenderHandle == "" || req.ReceiverHandle == "" || req.Currency == "" ||
		req.Chain == "" || req.TxHash == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required fields")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "Amount must be positive")
	}

	receiver := validation.CanonicalHandle(req.ReceiverHandle)

	pendingClaim := true
	creator, err := s.creators.GetByHandle(ctx, receiver)
	switch {
	case err == nil:
		pendingClaim = !creator.IsClaimed
	case errors.Is(err, creatorrepo.ErrNotFound):
		// Unknown receiver: keep the tip, settle it if they ever claim.
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to look up receiver")
	}

	usdValue := req.USDValue
	if usdValue.IsZero() && s.prices != nil {
		if price, perr := s.prices.USDPrice(ctx, req.Currency); perr == nil {
			usdValue = req.Amount.Mul(price)
		} else {
			log.Warn().Err(perr).Str("currency", req.Currency).Msg("failed to price tip, storing zero usd value")
		}
	}

	created, err := s.repo.Create(ctx, &models.Transaction{
		SenderHandle:   validation.CanonicalHandle(req.SenderHandle),
		ReceiverHandle: receiver,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Chain:          req.Chain,
		TxHash:         req.TxHash,
		USDValue:       usdValue,
		Status:         models.StatusCompleted,
		PendingClaim:   pendingClaim,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to record transaction")
	}

	log.Info().
		Str("receiver", receiver).
		Str("currency", req.Currency).
		Str("amount", req.Amount.String()).
		Bool("pending_claim", pendingClaim).
		Msg("tip recorded")
	return created, nil
}

func (s *transactionService) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	out, err := s.repo.List(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list transactions")
	}
	return out, nil
}

func (s *transactionService) ListBySender(ctx context.Context, senderHandle string, limit int) ([]*models.Transaction, error) {
	if senderHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Sender handle is required")
	}
	out, err := s.repo.ListBySender(ctx, validation.CanonicalHandle(senderHandle), normalizeLimit(limit))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list transactions")
	}
	return out, nil
}

func (s *transactionService) ListByReceiver(ctx context.Context, receiverHandle string, limit int) ([]*models.Transaction, error) {
	if receiverHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Receiver handle is required")
	}
	out, err := s.repo.ListByReceiver(ctx, validation.CanonicalHandle(receiverHandle), normalizeLimit(limit))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list transactions")
	}
	return out, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultListLimit
	}
	return limit
}
