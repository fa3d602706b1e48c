package dto

import (
	invoiceModel "innkeeper/internal/domains/invoice/model"
	"innkeeper/internal/domains/room/model"
	"innkeeper/shared"
	"innkeeper/shared/timezone"
	"time"
)

// AvailabilityQuery is the parsed search window for free rooms.
type AvailabilityQuery struct {
	CheckIn  string `json:"check_in"  validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Type     string `json:"type"      validate:"omitempty,max=50"`
}

type RoomResponse struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Type     string  `json:"type"`
	BaseRate float64 `json:"base_rate"`
	Status   string  `json:"status"`
}

func (r *RoomResponse) FromModel(mod model.Room) {
	r.ID = mod.ID
	r.Number = mod.Number
	r.Type = mod.Type
	r.BaseRate = mod.BaseRate
	r.Status = mod.Status
}

// AvailableRoomResponse is a room free for the requested window.
// HasSameDayCheckout marks rooms whose current guest leaves on the requested
// check-in day, so the desk knows the room frees up later that day.
type AvailableRoomResponse struct {
	RoomResponse
	HasSameDayCheckout bool   `json:"has_same_day_checkout"`
	CheckoutTime       string `json:"checkout_time,omitempty"`
}

func (r *AvailableRoomResponse) FromModel(mod model.Room, sameDayCheckout *time.Time) {
	r.RoomResponse.FromModel(mod)

	if sameDayCheckout != nil {
		r.HasSameDayCheckout = true
		r.CheckoutTime = timezone.Format(*sameDayCheckout, time.RFC3339)
	}
}

type GetAvailableRoomsResponse struct {
	Rooms []AvailableRoomResponse `json:"rooms"`
}

// GetRoomPlansResponse flattens every plan of a room into occupancy-keyed
// nightly rates, e.g. {"DELUXE_SINGLE": 4000, "DELUXE_DOUBLE": 5000}.
type GetRoomPlansResponse struct {
	RoomID string             `json:"room_id"`
	Rates  map[string]float64 `json:"rates"`
}

func (r *GetRoomPlansResponse) FromModels(roomID string, plans []model.Plan) {
	r.RoomID = roomID
	r.Rates = make(map[string]float64, len(plans)*2)

	for _, plan := range plans {
		r.Rates[plan.Code+"_"+model.OccupancySingle] = plan.SinglePrice
		r.Rates[plan.Code+"_"+model.OccupancyDouble] = plan.DoublePrice
	}
}

type InvoiceResponse struct {
	ID                 string  `json:"id"`
	InvoiceNumber      string  `json:"invoice_number"`
	BookingID          string  `json:"booking_id"`
	RoomNumber         string  `json:"room_number"`
	GuestName          string  `json:"guest_name"`
	CompanyName        string  `json:"company_name,omitempty"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	ActualCheckoutTime string  `json:"actual_checkout_time"`
	CGST               float64 `json:"cgst"`
	SGST               float64 `json:"sgst"`
	GrandTotal         float64 `json:"grand_total"`
	AdvancePaid        float64 `json:"advance_paid"`
	BalanceDue         float64 `json:"balance_due"`
	FinalPaymentAmount float64 `json:"final_payment_amount"`
	CreatedAt          string  `json:"created_at"`
}

func (r *InvoiceResponse) FromModel(mod invoiceModel.Invoice) {
	r.ID = mod.ID
	r.InvoiceNumber = mod.InvoiceNumber
	r.BookingID = mod.BookingID
	r.RoomNumber = mod.RoomNumber
	r.GuestName = mod.GuestName
	r.CompanyName = mod.CompanyName
	r.CheckIn = timezone.Format(mod.CheckIn, time.RFC3339)
	r.CheckOut = timezone.Format(mod.CheckOut, time.RFC3339)
	r.ActualCheckoutTime = timezone.Format(mod.ActualCheckoutTime, time.RFC3339)
	r.CGST = mod.CGST
	r.SGST = mod.SGST
	r.GrandTotal = mod.GrandTotal
	r.AdvancePaid = mod.AdvancePaid
	r.BalanceDue = mod.BalanceDue
	r.FinalPaymentAmount = mod.FinalPaymentAmount
	r.CreatedAt = timezone.Format(mod.CreatedAt, time.RFC3339)
}

type GetRoomInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetRoomInvoicesResponse) FromModels(models []invoiceModel.Invoice, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invoices = make([]InvoiceResponse, len(models))
	for i, mod := range models {
		r.Invoices[i].FromModel(mod)
	}
}
