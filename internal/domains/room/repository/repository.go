package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/room/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error

	SetStatus(ctx context.Context, roomID, status, user string) error
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, roomID, status, user string) error

	GetPlans(ctx context.Context, roomID string) ([]model.Plan, error)
	GetPlanByCode(ctx context.Context, roomID, code string) (model.Plan, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	plans gRepo.Repository[model.Plan]
	db    *postgres.Connection
	otel  otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		plans:      gRepo.NewRepository[model.Plan](model.PlanEntityName, model.PlanTableName, model.FieldPlanID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func statusFields(status, user string) map[string]any {
	return map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
}

func byRoomID(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
		},
	}
}

func (repo *repositoryImpl) SetStatus(ctx context.Context, roomID, status, user string) error {
	return repo.Update(ctx, statusFields(status, user), byRoomID(roomID)) //nolint:wrapcheck
}

func (repo *repositoryImpl) SetStatusTx(ctx context.Context, tx *sqlx.Tx, roomID, status, user string) error {
	return repo.UpdateTx(ctx, tx, statusFields(status, user), byRoomID(roomID)) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetPlans(ctx context.Context, roomID string) ([]model.Plan, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPlanRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.PlanTableName,
			},
		},
	}

	return repo.plans.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldPlanCode, SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetPlanByCode(ctx context.Context, roomID, code string) (model.Plan, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPlanRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.PlanTableName,
			},
			gDto.Filter{
				Field:    model.FieldPlanCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
				Table:    model.PlanTableName,
				ArgName:  "plan_code",
			},
		},
	}

	return repo.plans.Get(ctx, filter) //nolint:wrapcheck
}
