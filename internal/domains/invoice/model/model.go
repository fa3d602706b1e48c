package model

import (
	"encoding/json"
	"fmt"
	bookingModel "innkeeper/internal/domains/booking/model"
	orderModel "innkeeper/internal/domains/order/model"
	"innkeeper/shared/model"
	"innkeeper/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "room_invoices"
	EntityName = "invoice"

	FieldID        = "id"
	FieldHotelID   = "hotel_id"
	FieldBookingID = "booking_id"
	FieldRoomID    = "room_id"
)

// Invoice is the immutable financial snapshot cut at checkout. Guest, room
// and line details are denormalized so later edits to their source rows can
// never change what was billed.
type Invoice struct {
	ID            string `db:"id"`
	InvoiceNumber string `db:"invoice_number"`
	HotelID       string `db:"hotel_id"`
	BookingID     string `db:"booking_id"`
	RoomID        string `db:"room_id"`
	RoomNumber    string `db:"room_number"`

	GuestName   string `db:"guest_name"`
	GuestPhone  string `db:"guest_phone"`
	GuestEmail  string `db:"guest_email"`
	CompanyName string `db:"company_name"`
	GSTNumber   string `db:"gst_number"`

	CheckIn            time.Time `db:"check_in"`
	CheckOut           time.Time `db:"check_out"`
	ActualCheckoutTime time.Time `db:"actual_checkout_time"`

	PlanCode        string  `db:"plan_code"`
	Occupancy       string  `db:"occupancy"`
	PricingType     string  `db:"pricing_type"`
	DiscountPercent float64 `db:"discount_percent"`
	DiscountScope   string  `db:"discount_scope"`

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

	ServiceLines types.JSONText `db:"service_lines"`
	FoodLines    types.JSONText `db:"food_lines"`
	AdvanceLines types.JSONText `db:"advance_lines"`
	model.Metadata
}

type ServiceLine struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Days       []int64 `json:"days"`
	GSTEnabled bool    `json:"gst_enabled"`
	Amount     float64 `json:"amount"`
}

type FoodLine struct {
	OrderID   string  `json:"order_id"`
	Subtotal  float64 `json:"subtotal"`
	GST       float64 `json:"gst"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

type AdvanceLine struct {
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode"`
	Note   string  `json:"note,omitempty"`
	PaidAt string  `json:"paid_at"`
}

// FromCheckout builds the snapshot from the settled booking aggregate.
func FromCheckout(b bookingModel.Booking, roomNumber string, services []bookingModel.AddedService, advances []bookingModel.Advance, orders []orderModel.Order, actualCheckout time.Time, user string) (Invoice, error) {
	serviceLines := make([]ServiceLine, len(services))
	for i, svc := range services {
		serviceLines[i] = ServiceLine{
			Name:       svc.Name,
			Price:      svc.Price,
			Days:       []int64(svc.Days),
			GSTEnabled: svc.GSTEnabled,
			Amount:     svc.Price * float64(len(svc.Days)),
		}
	}

	foodLines := make([]FoodLine, len(orders))
	for i, order := range orders {
		foodLines[i] = FoodLine{
			OrderID:   order.ID,
			Subtotal:  order.Subtotal,
			GST:       order.GST,
			Total:     order.Total,
			CreatedAt: timezone.Format(order.CreatedAt, time.RFC3339),
		}
	}

	advanceLines := make([]AdvanceLine, len(advances))
	for i, adv := range advances {
		advanceLines[i] = AdvanceLine{
			Amount: adv.Amount,
			Mode:   adv.Mode,
			Note:   adv.Note,
			PaidAt: timezone.Format(adv.PaidAt, time.RFC3339),
		}
	}

	serviceJSON, err := json.Marshal(serviceLines)
	if err != nil {
		return Invoice{}, fmt.Errorf("failed to marshal service lines: %w", err)
	}

	foodJSON, err := json.Marshal(foodLines)
	if err != nil {
		return Invoice{}, fmt.Errorf("failed to marshal food lines: %w", err)
	}

	advanceJSON, err := json.Marshal(advanceLines)
	if err != nil {
		return Invoice{}, fmt.Errorf("failed to marshal advance lines: %w", err)
	}

	now := timezone.Now()

	return Invoice{
		ID:                 uuid.NewString(),
		InvoiceNumber:      fmt.Sprintf("INV-%s-%s", actualCheckout.Format("20060102"), uuid.NewString()[:8]),
		HotelID:            b.HotelID,
		BookingID:          b.ID,
		RoomID:             b.RoomID,
		RoomNumber:         roomNumber,
		GuestName:          b.GuestName,
		GuestPhone:         b.GuestPhone,
		GuestEmail:         b.GuestEmail,
		CompanyName:        b.CompanyName,
		GSTNumber:          b.GSTNumber,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		ActualCheckoutTime: actualCheckout,
		PlanCode:           b.PlanCode,
		Occupancy:          b.Occupancy,
		PricingType:        b.PricingType,
		DiscountPercent:    b.DiscountPercent,
		DiscountScope:      b.DiscountScope,
		Nights:             b.Nights,
		RoomBase:           b.RoomBase,
		RoomDiscount:       b.RoomDiscount,
		RoomGST:            b.RoomGST,
		RoomTotal:          b.RoomTotal,
		ExtrasBase:         b.ExtrasBase,
		ExtrasDiscount:     b.ExtrasDiscount,
		ExtrasGST:          b.ExtrasGST,
		ExtrasTotal:        b.ExtrasTotal,
		FoodSubtotal:       b.FoodSubtotal,
		FoodDiscount:       b.FoodDiscount,
		FoodGST:            b.FoodGST,
		FoodTotal:          b.FoodTotal,
		CGST:               b.CGST,
		SGST:               b.SGST,
		RoundOff:           b.RoundOff,
		GrandTotal:         b.GrandTotal,
		AdvancePaid:        b.AdvancePaid,
		BalanceDue:         b.BalanceDue,

		FinalPaymentReceived: b.FinalPaymentReceived,
		FinalPaymentAmount:   b.FinalPaymentAmount,

		ServiceLines:       types.JSONText(serviceJSON),
		FoodLines:          types.JSONText(foodJSON),
		AdvanceLines:       types.JSONText(advanceJSON),
		Metadata: model.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}
