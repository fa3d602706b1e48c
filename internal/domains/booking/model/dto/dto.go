package dto

import (
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/pricing"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ServiceRequest struct {
	Name       string  `json:"name"        validate:"required,max=100"`
	Price      float64 `json:"price"       validate:"gte=0"`
	Days       []int64 `json:"days"        validate:"required,min=1,dive,gte=1"`
	GSTEnabled bool    `json:"gst_enabled"`
}

func (s *ServiceRequest) ToModel(bookingID, user string) model.AddedService {
	return model.AddedService{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		Name:       s.Name,
		Price:      s.Price,
		Days:       pq.Int64Array(s.Days),
		GSTEnabled: s.GSTEnabled,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AdvanceRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Mode   string  `json:"mode"   validate:"required,oneof=CASH CARD UPI BANK"`
	Note   string  `json:"note"   validate:"omitempty,max=255"`
	PaidAt string  `json:"paid_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (a *AdvanceRequest) ToModel(bookingID, user string) model.Advance {
	paidAt := timezone.Now()
	if a.PaidAt != "" {
		if parsed, err := time.Parse(time.RFC3339, a.PaidAt); err == nil {
			paidAt = parsed
		}
	}

	return model.Advance{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    a.Amount,
		Mode:      a.Mode,
		Note:      a.Note,
		PaidAt:    paidAt,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateBookingRequest struct {
	RoomID      string `json:"room_id"      validate:"required"`
	GuestName   string `json:"guest_name"   validate:"required,max=100"`
	GuestPhone  string `json:"guest_phone"  validate:"omitempty,max=20"`
	GuestEmail  string `json:"guest_email"  validate:"omitempty,email,max=100"`
	CompanyName string `json:"company_name" validate:"omitempty,max=150"`
	GSTNumber   string `json:"gst_number"   validate:"omitempty,max=20"`

	CheckIn  string `json:"check_in"  validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`

	PlanCode            string  `json:"plan_code"             validate:"omitempty,max=50"`
	Occupancy           string  `json:"occupancy"             validate:"omitempty,oneof=SINGLE DOUBLE"`
	PricingType         string  `json:"pricing_type"          validate:"omitempty,oneof=PLAN CUSTOM FINAL_INCLUSIVE"`
	FinalRoomPrice      float64 `json:"final_room_price"      validate:"gte=0"`
	GSTEnabled          *bool   `json:"gst_enabled"`
	DiscountPercent     float64 `json:"discount_percent"      validate:"gte=0,lte=100"`
	DiscountScope       string  `json:"discount_scope"        validate:"omitempty,oneof=TOTAL ROOM EXTRAS"`
	RoundOffEnabled     bool    `json:"round_off_enabled"`
	FoodDiscountPercent float64 `json:"food_discount_percent" validate:"gte=0,lte=100"`
	FoodGSTEnabled      *bool   `json:"food_gst_enabled"`

	Services []ServiceRequest `json:"services" validate:"omitempty,dive"`
	Advance  *AdvanceRequest  `json:"advance"  validate:"omitempty"`
}

func (c *CreateBookingRequest) ToModel(hotelID, user string) (model.Booking, error) {
	checkIn, err := time.Parse(time.RFC3339, c.CheckIn)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(time.RFC3339, c.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	pricingType := c.PricingType
	if pricingType == "" {
		pricingType = model.PricingTypePlan
	}

	occupancy := c.Occupancy
	if occupancy == "" {
		occupancy = "SINGLE"
	}

	scope := c.DiscountScope
	if scope == "" {
		scope = model.DiscountScopeTotal
	}

	gstEnabled := true
	if c.GSTEnabled != nil {
		gstEnabled = *c.GSTEnabled
	}

	foodGSTEnabled := true
	if c.FoodGSTEnabled != nil {
		foodGSTEnabled = *c.FoodGSTEnabled
	}

	return model.Booking{
		ID:                  uuid.NewString(),
		HotelID:             hotelID,
		RoomID:              c.RoomID,
		GuestName:           c.GuestName,
		GuestPhone:          c.GuestPhone,
		GuestEmail:          c.GuestEmail,
		CompanyName:         c.CompanyName,
		GSTNumber:           c.GSTNumber,
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		PlanCode:            c.PlanCode,
		Occupancy:           occupancy,
		PricingType:         pricingType,
		FinalRoomPrice:      c.FinalRoomPrice,
		GSTEnabled:          gstEnabled,
		DiscountPercent:     c.DiscountPercent,
		DiscountScope:       scope,
		RoundOffEnabled:     c.RoundOffEnabled,
		FoodDiscountPercent: c.FoodDiscountPercent,
		FoodGSTEnabled:      foodGSTEnabled,
		Status:              model.StatusOccupied,
		Version:             1,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// UpdateRoomBillingRequest patches the pricing configuration of a stay.
// Pointer fields distinguish "leave alone" from explicit zero values.
type UpdateRoomBillingRequest struct {
	PlanCode        *string  `json:"plan_code"         validate:"omitempty,max=50"`
	Occupancy       *string  `json:"occupancy"         validate:"omitempty,oneof=SINGLE DOUBLE"`
	PricingType     *string  `json:"pricing_type"      validate:"omitempty,oneof=PLAN CUSTOM FINAL_INCLUSIVE"`
	FinalRoomPrice  *float64 `json:"final_room_price"  validate:"omitempty,gte=0"`
	GSTEnabled      *bool    `json:"gst_enabled"`
	DiscountPercent *float64 `json:"discount_percent"  validate:"omitempty,gte=0,lte=100"`
	DiscountScope   *string  `json:"discount_scope"    validate:"omitempty,oneof=TOTAL ROOM EXTRAS"`
	RoundOffEnabled *bool    `json:"round_off_enabled"`
}

// Apply copies the provided fields onto the booking.
func (u *UpdateRoomBillingRequest) Apply(b *model.Booking) {
	if u.PlanCode != nil {
		b.PlanCode = *u.PlanCode
	}

	if u.Occupancy != nil {
		b.Occupancy = *u.Occupancy
	}

	if u.PricingType != nil {
		b.PricingType = *u.PricingType
	}

	if u.FinalRoomPrice != nil {
		b.FinalRoomPrice = *u.FinalRoomPrice
	}

	if u.GSTEnabled != nil {
		b.GSTEnabled = *u.GSTEnabled
	}

	if u.DiscountPercent != nil {
		b.DiscountPercent = *u.DiscountPercent
	}

	if u.DiscountScope != nil {
		b.DiscountScope = *u.DiscountScope
	}

	if u.RoundOffEnabled != nil {
		b.RoundOffEnabled = *u.RoundOffEnabled
	}
}

// UpdateServicesRequest replaces the full set of extras on a stay.
type UpdateServicesRequest struct {
	Services []ServiceRequest `json:"services" validate:"required,dive"`
}

type UpdateFoodBillingRequest struct {
	FoodDiscountPercent *float64 `json:"food_discount_percent" validate:"omitempty,gte=0,lte=100"`
	FoodGSTEnabled      *bool    `json:"food_gst_enabled"`
}

func (u *UpdateFoodBillingRequest) Apply(b *model.Booking) {
	if u.FoodDiscountPercent != nil {
		b.FoodDiscountPercent = *u.FoodDiscountPercent
	}

	if u.FoodGSTEnabled != nil {
		b.FoodGSTEnabled = *u.FoodGSTEnabled
	}
}

type ExtendStayRequest struct {
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type CheckoutRequest struct {
	Advance            *AdvanceRequest `json:"advance"              validate:"omitempty"`
	ActualCheckoutTime string          `json:"actual_checkout_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type BlockRoomRequest struct {
	RoomID   string `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Note     string `json:"note"      validate:"omitempty,max=255"`
}

// ToModel builds the placeholder booking that holds the room. A block carries
// no pricing configuration; every financial field stays zero until the block
// is converted into a stay.
func (b *BlockRoomRequest) ToModel(hotelID, roomID, user string) (model.Booking, error) {
	checkIn, err := time.Parse(time.RFC3339, b.CheckIn)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(time.RFC3339, b.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	guestName := "BLOCKED"
	if b.Note != constant.Empty {
		guestName = "BLOCKED: " + b.Note
	}

	return model.Booking{
		ID:            uuid.NewString(),
		HotelID:       hotelID,
		RoomID:        roomID,
		GuestName:     guestName,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Occupancy:     "SINGLE",
		PricingType:   model.PricingTypeCustom,
		DiscountScope: model.DiscountScopeTotal,
		Status:        model.StatusBlocked,
		Version:       1,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type BlockSelectedRoomsRequest struct {
	RoomIDs  []string `json:"room_ids"  validate:"required,min=1"`
	CheckIn  string   `json:"check_in"  validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CheckOut string   `json:"check_out" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// ConvertBookingRequest turns a blocked room into a live stay.
type ConvertBookingRequest struct {
	GuestName   string `json:"guest_name"   validate:"required,max=100"`
	GuestPhone  string `json:"guest_phone"  validate:"omitempty,max=20"`
	GuestEmail  string `json:"guest_email"  validate:"omitempty,email,max=100"`
	CompanyName string `json:"company_name" validate:"omitempty,max=150"`
	GSTNumber   string `json:"gst_number"   validate:"omitempty,max=20"`

	PlanCode        string  `json:"plan_code"        validate:"omitempty,max=50"`
	Occupancy       string  `json:"occupancy"        validate:"omitempty,oneof=SINGLE DOUBLE"`
	PricingType     string  `json:"pricing_type"     validate:"omitempty,oneof=PLAN CUSTOM FINAL_INCLUSIVE"`
	FinalRoomPrice  float64 `json:"final_room_price" validate:"gte=0"`
	GSTEnabled      *bool   `json:"gst_enabled"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	DiscountScope   string  `json:"discount_scope"   validate:"omitempty,oneof=TOTAL ROOM EXTRAS"`
}

// Apply turns the blocked placeholder into a live stay with the guest and
// pricing details of the walk-in.
func (c *ConvertBookingRequest) Apply(b *model.Booking) {
	b.GuestName = c.GuestName
	b.GuestPhone = c.GuestPhone
	b.GuestEmail = c.GuestEmail
	b.CompanyName = c.CompanyName
	b.GSTNumber = c.GSTNumber
	b.PlanCode = c.PlanCode
	b.FinalRoomPrice = c.FinalRoomPrice
	b.DiscountPercent = c.DiscountPercent

	b.Occupancy = c.Occupancy
	if b.Occupancy == constant.Empty {
		b.Occupancy = "SINGLE"
	}

	b.PricingType = c.PricingType
	if b.PricingType == constant.Empty {
		b.PricingType = model.PricingTypePlan
	}

	b.DiscountScope = c.DiscountScope
	if b.DiscountScope == constant.Empty {
		b.DiscountScope = model.DiscountScopeTotal
	}

	b.GSTEnabled = true
	if c.GSTEnabled != nil {
		b.GSTEnabled = *c.GSTEnabled
	}

	b.Status = model.StatusOccupied
}

type ServiceResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Days       []int64 `json:"days"`
	GSTEnabled bool    `json:"gst_enabled"`
}

func (r *ServiceResponse) FromModel(mod model.AddedService) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Price = mod.Price
	r.Days = []int64(mod.Days)
	r.GSTEnabled = mod.GSTEnabled
}

type AdvanceResponse struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode"`
	Note   string  `json:"note,omitempty"`
	PaidAt string  `json:"paid_at"`
}

func (r *AdvanceResponse) FromModel(mod model.Advance) {
	r.ID = mod.ID
	r.Amount = mod.Amount
	r.Mode = mod.Mode
	r.Note = mod.Note
	r.PaidAt = timezone.Format(mod.PaidAt, time.RFC3339)
}

type BillingResponse struct {
	Nights         int     `json:"nights"`
	RoomBase       float64 `json:"room_base"`
	RoomDiscount   float64 `json:"room_discount"`
	RoomGST        float64 `json:"room_gst"`
	RoomTotal      float64 `json:"room_total"`
	ExtrasBase     float64 `json:"extras_base"`
	ExtrasDiscount float64 `json:"extras_discount"`
	ExtrasGST      float64 `json:"extras_gst"`
	ExtrasTotal    float64 `json:"extras_total"`
	FoodSubtotal   float64 `json:"food_subtotal"`
	FoodDiscount   float64 `json:"food_discount"`
	FoodGST        float64 `json:"food_gst"`
	FoodTotal      float64 `json:"food_total"`
	CGST           float64 `json:"cgst"`
	SGST           float64 `json:"sgst"`
	RoundOff       float64 `json:"round_off"`
	GrandTotal     float64 `json:"grand_total"`
	AdvancePaid    float64 `json:"advance_paid"`
	BalanceDue     float64 `json:"balance_due"`

	FinalPaymentReceived bool    `json:"final_payment_received"`
	FinalPaymentAmount   float64 `json:"final_payment_amount"`
}

func (r *BillingResponse) FromModel(mod model.Booking) {
	r.Nights = mod.Nights
	r.RoomBase = mod.RoomBase
	r.RoomDiscount = mod.RoomDiscount
	r.RoomGST = mod.RoomGST
	r.RoomTotal = mod.RoomTotal
	r.ExtrasBase = mod.ExtrasBase
	r.ExtrasDiscount = mod.ExtrasDiscount
	r.ExtrasGST = mod.ExtrasGST
	r.ExtrasTotal = mod.ExtrasTotal
	r.FoodSubtotal = mod.FoodSubtotal
	r.FoodDiscount = mod.FoodDiscount
	r.FoodGST = mod.FoodGST
	r.FoodTotal = mod.FoodTotal
	r.CGST = mod.CGST
	r.SGST = mod.SGST
	r.RoundOff = mod.RoundOff
	r.GrandTotal = mod.GrandTotal
	r.AdvancePaid = mod.AdvancePaid
	r.BalanceDue = mod.BalanceDue
	r.FinalPaymentReceived = mod.FinalPaymentReceived
	r.FinalPaymentAmount = mod.FinalPaymentAmount
}

type BookingResponse struct {
	ID          string `json:"id"`
	RoomID      string `json:"room_id"`
	GuestName   string `json:"guest_name"`
	GuestPhone  string `json:"guest_phone,omitempty"`
	GuestEmail  string `json:"guest_email,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	GSTNumber   string `json:"gst_number,omitempty"`

	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`

	PlanCode            string  `json:"plan_code,omitempty"`
	Occupancy           string  `json:"occupancy"`
	PricingType         string  `json:"pricing_type"`
	FinalRoomPrice      float64 `json:"final_room_price,omitempty"`
	GSTEnabled          bool    `json:"gst_enabled"`
	DiscountPercent     float64 `json:"discount_percent"`
	DiscountScope       string  `json:"discount_scope"`
	RoundOffEnabled     bool    `json:"round_off_enabled"`
	FoodDiscountPercent float64 `json:"food_discount_percent"`
	FoodGSTEnabled      bool    `json:"food_gst_enabled"`

	Billing  BillingResponse   `json:"billing"`
	Services []ServiceResponse `json:"services"`
	Advances []AdvanceResponse `json:"advances"`

	Status             string `json:"status"`
	ActualCheckoutTime string `json:"actual_checkout_time,omitempty"`
	gDtoMetadata
}

// gDtoMetadata keeps the embedded metadata fields without colliding with the
// booking's own timestamps in swagger output.
type gDtoMetadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (r *BookingResponse) FromModel(mod model.Booking, services []model.AddedService, advances []model.Advance) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.GuestName = mod.GuestName
	r.GuestPhone = mod.GuestPhone
	r.GuestEmail = mod.GuestEmail
	r.CompanyName = mod.CompanyName
	r.GSTNumber = mod.GSTNumber
	r.CheckIn = timezone.Format(mod.CheckIn, time.RFC3339)
	r.CheckOut = timezone.Format(mod.CheckOut, time.RFC3339)
	r.PlanCode = mod.PlanCode
	r.Occupancy = mod.Occupancy
	r.PricingType = mod.PricingType
	r.FinalRoomPrice = mod.FinalRoomPrice
	r.GSTEnabled = mod.GSTEnabled
	r.DiscountPercent = mod.DiscountPercent
	r.DiscountScope = mod.DiscountScope
	r.RoundOffEnabled = mod.RoundOffEnabled
	r.FoodDiscountPercent = mod.FoodDiscountPercent
	r.FoodGSTEnabled = mod.FoodGSTEnabled
	r.Status = mod.Status

	if mod.ActualCheckoutTime != nil {
		r.ActualCheckoutTime = timezone.Format(*mod.ActualCheckoutTime, time.RFC3339)
	}

	r.Billing.FromModel(mod)

	r.Services = make([]ServiceResponse, len(services))
	for i, svc := range services {
		r.Services[i].FromModel(svc)
	}

	r.Advances = make([]AdvanceResponse, len(advances))
	for i, adv := range advances {
		r.Advances[i].FromModel(adv)
	}

	r.CreatedAt = timezone.Format(mod.CreatedAt, time.RFC3339)
	r.ModifiedAt = timezone.Format(mod.ModifiedAt, time.RFC3339)
	r.CreatedBy = mod.CreatedBy
	r.ModifiedBy = mod.ModifiedBy
}

type CreateBookingResponse struct {
	ID string `json:"id"`
}

type BlockRoomsResponse struct {
	BookingIDs []string `json:"booking_ids"`
}

type CheckoutResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Booking       BookingResponse `json:"booking"`
}

type ExtendStayResponse struct {
	Booking BookingResponse `json:"booking"`
	Warning bool            `json:"warning"`
	Message string          `json:"message,omitempty"`
}

type FoodBillingResponse struct {
	BookingID string              `json:"booking_id"`
	Summary   pricing.FoodSummary `json:"summary"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, nil, nil)
	}
}
