package model

import (
	"strings"

	"innkeeper/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldHotelID  = "hotel_id"
	FieldNumber   = "number"
	FieldType     = "type"
	FieldBaseRate = "base_rate"
	FieldStatus   = "status"
)

const (
	StatusAvailable   = "AVAILABLE"
	StatusOccupied    = "OCCUPIED"
	StatusBlocked     = "BLOCKED"
	StatusMaintenance = "MAINTENANCE"
)

type Room struct {
	ID       string  `db:"id"`
	HotelID  string  `db:"hotel_id"`
	Number   string  `db:"number"`
	Type     string  `db:"type"`
	BaseRate float64 `db:"base_rate"`
	Status   string  `db:"status"`
	model.Metadata
}

const (
	PlanTableName  = "room_plans"
	PlanEntityName = "room_plan"

	FieldPlanID     = "id"
	FieldPlanRoomID = "room_id"
	FieldPlanCode   = "code"
)

const (
	OccupancySingle = "SINGLE"
	OccupancyDouble = "DOUBLE"
)

type Plan struct {
	ID          string  `db:"id"`
	RoomID      string  `db:"room_id"`
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	SinglePrice float64 `db:"single_price"`
	DoublePrice float64 `db:"double_price"`
	model.Metadata
}

// RateFor resolves the nightly rate of the plan for the given occupancy.
func (p *Plan) RateFor(occupancy string) float64 {
	if occupancy == OccupancyDouble {
		return p.DoublePrice
	}

	return p.SinglePrice
}

// SplitPlanCode splits a combined plan code such as "DELUXE_DOUBLE" into the
// rate-card code and its occupancy. A code without a recognized occupancy
// suffix is returned as-is with the fallback occupancy.
func SplitPlanCode(planCode, fallbackOccupancy string) (code, occupancy string) {
	if idx := strings.LastIndex(planCode, "_"); idx > 0 {
		switch suffix := planCode[idx+1:]; suffix {
		case OccupancySingle, OccupancyDouble:
			return planCode[:idx], suffix
		}
	}

	return planCode, fallbackOccupancy
}
