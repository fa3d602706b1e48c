package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetAllTx(ctx context.Context, tx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error

	Save(ctx context.Context, booking model.Booking) error
	SaveTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error

	GetServices(ctx context.Context, bookingID string) ([]model.AddedService, error)
	GetServicesTx(ctx context.Context, tx *sqlx.Tx, bookingID string) ([]model.AddedService, error)
	ReplaceServicesTx(ctx context.Context, tx *sqlx.Tx, bookingID string, services []model.AddedService) error

	GetAdvances(ctx context.Context, bookingID string) ([]model.Advance, error)
	GetAdvancesTx(ctx context.Context, tx *sqlx.Tx, bookingID string) ([]model.Advance, error)
	InsertAdvanceTx(ctx context.Context, tx *sqlx.Tx, advance model.Advance) error
	DeleteAdvanceTx(ctx context.Context, tx *sqlx.Tx, bookingID, advanceID string) error

	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	WithSerializableTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	services gRepo.Repository[model.AddedService]
	advances gRepo.Repository[model.Advance]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		services:   gRepo.NewRepository[model.AddedService](model.ServiceEntityName, model.ServiceTableName, model.FieldServiceID, db, otel),
		advances:   gRepo.NewRepository[model.Advance](model.AdvanceEntityName, model.AdvanceTableName, model.FieldAdvanceID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.WithTx(ctx, nil, fn) //nolint:wrapcheck
}

func (repo *repositoryImpl) WithSerializableTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.WithSerializableTx(ctx, fn) //nolint:wrapcheck
}

// saveQuery writes back every field the engine derives plus the mutable
// configuration, guarded by the version column. A stale version writes zero
// rows and surfaces as a conflict.
const saveQuery = `UPDATE room_bookings SET
	guest_name = :guest_name,
	guest_phone = :guest_phone,
	guest_email = :guest_email,
	company_name = :company_name,
	gst_number = :gst_number,
	check_in = :check_in,
	check_out = :check_out,
	plan_code = :plan_code,
	occupancy = :occupancy,
	pricing_type = :pricing_type,
	final_room_price = :final_room_price,
	gst_enabled = :gst_enabled,
	discount_percent = :discount_percent,
	discount_scope = :discount_scope,
	round_off_enabled = :round_off_enabled,
	food_discount_percent = :food_discount_percent,
	food_gst_enabled = :food_gst_enabled,
	nights = :nights,
	room_base = :room_base,
	room_discount = :room_discount,
	room_gst = :room_gst,
	room_total = :room_total,
	extras_base = :extras_base,
	extras_discount = :extras_discount,
	extras_gst = :extras_gst,
	extras_total = :extras_total,
	food_subtotal = :food_subtotal,
	food_discount = :food_discount,
	food_gst = :food_gst,
	food_total = :food_total,
	cgst = :cgst,
	sgst = :sgst,
	round_off = :round_off,
	grand_total = :grand_total,
	advance_paid = :advance_paid,
	balance_due = :balance_due,
	final_payment_received = :final_payment_received,
	final_payment_amount = :final_payment_amount,
	status = :status,
	actual_checkout_time = :actual_checkout_time,
	version = version + 1,
	modified_by = :modified_by,
	modified_at = :modified_at
WHERE id = :id AND version = :version`

func (repo *repositoryImpl) Save(ctx context.Context, booking model.Booking) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Save")
	defer scope.End()

	return repo.save(ctx, repo.db.Write, booking)
}

func (repo *repositoryImpl) SaveTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SaveTx")
	defer scope.End()

	return repo.save(ctx, tx, booking)
}

func (repo *repositoryImpl) save(ctx context.Context, exec sqlx.ExtContext, booking model.Booking) error {
	booking.ModifiedAt = timezone.Now()

	result, err := sqlx.NamedExecContext(ctx, exec, saveQuery, booking)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to save booking: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to save booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently, please retry") //nolint:wrapcheck
	}

	return nil
}

func byBookingID(bookingID, field, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    table,
			},
		},
	}
}

func (repo *repositoryImpl) GetServices(ctx context.Context, bookingID string) ([]model.AddedService, error) {
	return repo.services.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, byBookingID(bookingID, model.FieldServiceBookingID, model.ServiceTableName)) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetServicesTx(ctx context.Context, tx *sqlx.Tx, bookingID string) ([]model.AddedService, error) {
	return repo.services.GetAllTx(ctx, tx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, byBookingID(bookingID, model.FieldServiceBookingID, model.ServiceTableName)) //nolint:wrapcheck
}

func (repo *repositoryImpl) ReplaceServicesTx(ctx context.Context, tx *sqlx.Tx, bookingID string, services []model.AddedService) error {
	err := repo.services.DeleteTx(ctx, tx, byBookingID(bookingID, model.FieldServiceBookingID, model.ServiceTableName))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(services) == 0 {
		return nil
	}

	return repo.services.InsertBulkTx(ctx, tx, services) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetAdvances(ctx context.Context, bookingID string) ([]model.Advance, error) {
	return repo.advances.GetAll(ctx, gDto.QueryParams{SortBy: "paid_at", SortDir: gDto.SortDirAsc}, byBookingID(bookingID, model.FieldAdvanceBookingID, model.AdvanceTableName)) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetAdvancesTx(ctx context.Context, tx *sqlx.Tx, bookingID string) ([]model.Advance, error) {
	return repo.advances.GetAllTx(ctx, tx, gDto.QueryParams{SortBy: "paid_at", SortDir: gDto.SortDirAsc}, byBookingID(bookingID, model.FieldAdvanceBookingID, model.AdvanceTableName)) //nolint:wrapcheck
}

func (repo *repositoryImpl) InsertAdvanceTx(ctx context.Context, tx *sqlx.Tx, advance model.Advance) error {
	return repo.advances.InsertTx(ctx, tx, advance) //nolint:wrapcheck
}

func (repo *repositoryImpl) DeleteAdvanceTx(ctx context.Context, tx *sqlx.Tx, bookingID, advanceID string) error {
	filter := byBookingID(bookingID, model.FieldAdvanceBookingID, model.AdvanceTableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldAdvanceID,
		Operator: gDto.FilterOperatorEq,
		Value:    advanceID,
		Table:    model.AdvanceTableName,
		ArgName:  "advance_id",
	})

	return repo.advances.DeleteTx(ctx, tx, filter) //nolint:wrapcheck
}
