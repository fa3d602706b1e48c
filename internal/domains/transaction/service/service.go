package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"innkeeper/infras/otel"
	"innkeeper/internal/domains/transaction/model"
	"innkeeper/internal/domains/transaction/repository"
	"innkeeper/shared/constant"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Ledger posts immutable money movements. It is append-only by design; there
// is no update or delete path.
type Ledger interface {
	Post(ctx context.Context, hotelID, txType, source string, amount float64, referenceID, description string) error
	PostTx(ctx context.Context, tx *sqlx.Tx, hotelID, txType, source string, amount float64, referenceID, description string) error
}

type serviceImpl struct {
	repo repository.Transaction
	otel otel.Otel
}

func New(repo repository.Transaction, otel otel.Otel) Ledger {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) entry(ctx context.Context, hotelID, txType, source string, amount float64, referenceID, description string) model.Transaction {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	return model.Transaction{
		ID:          uuid.NewString(),
		HotelID:     hotelID,
		Type:        txType,
		Source:      source,
		Amount:      amount,
		ReferenceID: referenceID,
		Description: description,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func (s *serviceImpl) Post(ctx context.Context, hotelID, txType, source string, amount float64, referenceID, description string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LedgerPost")
	defer scope.End()

	return s.repo.Insert(ctx, s.entry(ctx, hotelID, txType, source, amount, referenceID, description)) //nolint:wrapcheck
}

func (s *serviceImpl) PostTx(ctx context.Context, tx *sqlx.Tx, hotelID, txType, source string, amount float64, referenceID, description string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LedgerPostTx")
	defer scope.End()

	return s.repo.InsertTx(ctx, tx, s.entry(ctx, hotelID, txType, source, amount, referenceID, description)) //nolint:wrapcheck
}
