package model

import (
	"innkeeper/shared/model"
)

const (
	TableName  = "transactions"
	EntityName = "transaction"

	FieldID      = "id"
	FieldHotelID = "hotel_id"
	FieldType    = "type"
	FieldSource  = "source"
)

const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

const (
	SourceRoomCheckout = "ROOM_CHECKOUT"
	SourceAdvance      = "ADVANCE"
	SourceRefund       = "REFUND"
)

// Transaction is one immutable ledger entry. Entries are only ever appended.
type Transaction struct {
	ID          string  `db:"id"`
	HotelID     string  `db:"hotel_id"`
	Type        string  `db:"type"`
	Source      string  `db:"source"`
	Amount      float64 `db:"amount"`
	ReferenceID string  `db:"reference_id"`
	Description string  `db:"description"`
	model.Metadata
}
