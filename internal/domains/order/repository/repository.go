package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/order/model"
	"innkeeper/shared/constant"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Order interface {
	// StayOrders returns the orders a stay is liable for: every order raised
	// against the room inside [checkIn, checkOut), plus orders explicitly
	// transferred to the booking that are still pending or delivered.
	StayOrders(ctx context.Context, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) ([]model.Order, error)
	StayOrdersTx(ctx context.Context, tx *sqlx.Tx, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) ([]model.Order, error)
	// SettleStayOrdersTx marks the liable orders as paid during checkout.
	SettleStayOrdersTx(ctx context.Context, tx *sqlx.Tx, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Order]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Order {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Order](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const stayOrdersWhere = `hotel_id = :hotel_id
  AND status != :cancelled
  AND (
    (room_id = :room_id AND created_at >= :check_in AND created_at < :check_out)
    OR (booking_id = :booking_id AND (created_at < :check_in OR created_at >= :check_out) AND status IN (:pending, :delivered))
  )`

func stayOrdersArgs(hotelID, roomID, bookingID string, checkIn, checkOut time.Time) map[string]any {
	return map[string]any{
		"hotel_id":   hotelID,
		"room_id":    roomID,
		"booking_id": bookingID,
		"check_in":   checkIn,
		"check_out":  checkOut,
		"cancelled":  model.StatusCancelled,
		"pending":    model.StatusPending,
		"delivered":  model.StatusDelivered,
	}
}

func (repo *repositoryImpl) StayOrders(ctx context.Context, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) ([]model.Order, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.StayOrders")
	defer scope.End()

	return repo.stayOrders(ctx, repo.db.Read, hotelID, roomID, bookingID, checkIn, checkOut)
}

func (repo *repositoryImpl) StayOrdersTx(ctx context.Context, tx *sqlx.Tx, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) ([]model.Order, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.StayOrdersTx")
	defer scope.End()

	return repo.stayOrders(ctx, tx, hotelID, roomID, bookingID, checkIn, checkOut)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

func (repo *repositoryImpl) stayOrders(ctx context.Context, prep preparer, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) ([]model.Order, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s ORDER BY created_at ASC", model.TableName, stayOrdersWhere)

	var orders []model.Order

	prepare, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return orders, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &orders, stayOrdersArgs(hotelID, roomID, bookingID, checkIn, checkOut))
	if err != nil {
		logger.ErrorWithStack(err)

		return orders, fmt.Errorf("failed to get stay orders: %w", err)
	}

	return orders, nil
}

func (repo *repositoryImpl) SettleStayOrdersTx(ctx context.Context, tx *sqlx.Tx, hotelID, roomID, bookingID string, checkIn, checkOut time.Time) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.SettleStayOrdersTx")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET payment_status = :paid, booking_id = :booking_id WHERE %s", model.TableName, stayOrdersWhere)

	args := stayOrdersArgs(hotelID, roomID, bookingID, checkIn, checkOut)
	args["paid"] = model.PaymentStatusPaid

	_, err := tx.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to settle stay orders: %w", err)
	}

	return nil
}
