package model

import (
	"innkeeper/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID       = "id"
	FieldHotelID  = "hotel_id"
	FieldRoomID   = "room_id"
	FieldCheckIn  = "check_in"
	FieldCheckOut = "check_out"
	FieldStatus   = "status"
	FieldVersion  = "version"
)

const (
	StatusConfirmed  = "CONFIRMED"
	StatusOccupied   = "OCCUPIED"
	StatusCheckedOut = "CHECKEDOUT"
	StatusCancelled  = "CANCELLED"
	StatusNoShow     = "NO_SHOW"
	StatusBlocked    = "BLOCKED"
)

const (
	PricingTypePlan           = "PLAN"
	PricingTypeCustom         = "CUSTOM"
	PricingTypeFinalInclusive = "FINAL_INCLUSIVE"
)

const (
	DiscountScopeTotal  = "TOTAL"
	DiscountScopeRoom   = "ROOM"
	DiscountScopeExtras = "EXTRAS"
)

// ActiveStatuses are the statuses that hold a room's window against other
// reservations. Every non-cancelled booking keeps its claim: checked-out and
// no-show stays still occupy their historical window, only cancellation
// releases the room.
var ActiveStatuses = []string{StatusConfirmed, StatusOccupied, StatusCheckedOut, StatusNoShow, StatusBlocked}

var transitions = map[string][]string{
	StatusConfirmed: {StatusOccupied, StatusCancelled, StatusNoShow},
	StatusOccupied:  {StatusCheckedOut, StatusCancelled},
	StatusBlocked:   {StatusConfirmed, StatusOccupied, StatusCancelled},
}

// IsTerminal reports whether a booking in the given status accepts no further
// mutation of any kind.
func IsTerminal(status string) bool {
	switch status {
	case StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a status change is allowed by the lifecycle.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Booking struct {
	ID          string `db:"id"`
	HotelID     string `db:"hotel_id"`
	RoomID      string `db:"room_id"`
	GuestName   string `db:"guest_name"`
	GuestPhone  string `db:"guest_phone"`
	GuestEmail  string `db:"guest_email"`
	CompanyName string `db:"company_name"`
	GSTNumber   string `db:"gst_number"`

	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`

	PlanCode            string  `db:"plan_code"`
	Occupancy           string  `db:"occupancy"`
	PricingType         string  `db:"pricing_type"`
	FinalRoomPrice      float64 `db:"final_room_price"`
	GSTEnabled          bool    `db:"gst_enabled"`
	DiscountPercent     float64 `db:"discount_percent"`
	DiscountScope       string  `db:"discount_scope"`
	RoundOffEnabled     bool    `db:"round_off_enabled"`
	FoodDiscountPercent float64 `db:"food_discount_percent"`
	FoodGSTEnabled      bool    `db:"food_gst_enabled"`

	Nights         int     `db:"nights"`
	RoomBase       float64 `db:"room_base"`
	RoomDiscount   float64 `db:"room_discount"`
	RoomGST        float64 `db:"room_gst"`
	RoomTotal      float64 `db:"room_total"`
	ExtrasBase     float64 `db:"extras_base"`
	ExtrasDiscount float64 `db:"extras_discount"`
	ExtrasGST      float64 `db:"extras_gst"`
	ExtrasTotal    float64 `db:"extras_total"`
	FoodSubtotal   float64 `db:"food_subtotal"`
	FoodDiscount   float64 `db:"food_discount"`
	FoodGST        float64 `db:"food_gst"`
	FoodTotal      float64 `db:"food_total"`
	CGST           float64 `db:"cgst"`
	SGST           float64 `db:"sgst"`
	RoundOff       float64 `db:"round_off"`
	GrandTotal     float64 `db:"grand_total"`
	AdvancePaid    float64 `db:"advance_paid"`
	BalanceDue     float64 `db:"balance_due"`

	FinalPaymentReceived bool    `db:"final_payment_received"`
	FinalPaymentAmount   float64 `db:"final_payment_amount"`

	Status             string     `db:"status"`
	ActualCheckoutTime *time.Time `db:"actual_checkout_time"`
	Version            int        `db:"version"`
	model.Metadata
}

const (
	ServiceTableName  = "booking_services"
	ServiceEntityName = "booking_service"

	FieldServiceID        = "id"
	FieldServiceBookingID = "booking_id"
)

// AddedService is an extra charged to the stay, billed per selected night.
type AddedService struct {
	ID         string        `db:"id"`
	BookingID  string        `db:"booking_id"`
	Name       string        `db:"name"`
	Price      float64       `db:"price"`
	Days       pq.Int64Array `db:"days"`
	GSTEnabled bool          `db:"gst_enabled"`
	model.Metadata
}

const (
	AdvanceTableName  = "booking_advances"
	AdvanceEntityName = "booking_advance"

	FieldAdvanceID        = "id"
	FieldAdvanceBookingID = "booking_id"
)

// Advance is one entry in the append-only advance payment ledger.
type Advance struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	Amount    float64   `db:"amount"`
	Mode      string    `db:"mode"`
	Note      string    `db:"note"`
	PaidAt    time.Time `db:"paid_at"`
	model.Metadata
}
