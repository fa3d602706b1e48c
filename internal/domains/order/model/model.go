package model

import (
	"innkeeper/shared/model"
)

const (
	TableName  = "orders"
	EntityName = "order"

	FieldID            = "id"
	FieldHotelID       = "hotel_id"
	FieldRoomID        = "room_id"
	FieldBookingID     = "booking_id"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
)

const (
	StatusPending   = "PENDING"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Order is a food order raised against a room during a stay. Orders are
// written by the dining side; this domain only reads and settles them.
type Order struct {
	ID            string  `db:"id"`
	HotelID       string  `db:"hotel_id"`
	RoomID        string  `db:"room_id"`
	BookingID     *string `db:"booking_id"`
	Subtotal      float64 `db:"subtotal"`
	GST           float64 `db:"gst"`
	Total         float64 `db:"total"`
	Status        string  `db:"status"`
	PaymentStatus string  `db:"payment_status"`
	model.Metadata
}
