package pricing

import (
	"fmt"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/shared/failure"
	"math"
	"time"
)

const (
	// GSTRate is the flat GST applied to lodging, extras and food.
	GSTRate = 0.05

	hoursPerNight = 24
)

// FoodSummary carries the already-settled food figures for a stay. Discount
// and GST are applied by the food billing side before the engine sees them.
type FoodSummary struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	GST      float64 `json:"gst"`
	Total    float64 `json:"total"`
}

// Round2 rounds to two decimals, the resolution every money field is kept at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Nights converts a stay window into billable nights. Any stay shorter than a
// full day still bills one night.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(math.Ceil(hours / hoursPerNight))

	if nights < 1 {
		return 1
	}

	return nights
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}

	if pct > 100 {
		return 100
	}

	return pct
}

// ValidateServiceDays checks that every service bills a non-empty set of
// nights within the stay.
func ValidateServiceDays(services []model.AddedService, nights int) error {
	for _, svc := range services {
		if len(svc.Days) == 0 {
			return failure.BadRequestFromString(fmt.Sprintf("service %q has no billable days", svc.Name))
		}

		for _, day := range svc.Days {
			if day < 1 || day > int64(nights) {
				return failure.BadRequestFromString(fmt.Sprintf("service %q bills day %d outside the %d-night stay", svc.Name, day, nights))
			}
		}
	}

	return nil
}

// Recompute derives every financial field of the booking from its pricing
// configuration, its extras, its food summary and its advance ledger. It is
// the only place billing math happens; every read and write path runs it so
// stored derived fields can never drift from their inputs.
//
// nightlyRate is the resolved plan rate and is only consulted when the
// booking prices by plan; custom and final-inclusive bookings carry their own
// nightly price.
func Recompute(b *model.Booking, services []model.AddedService, advances []model.Advance, food FoodSummary, nightlyRate float64) error {
	if !b.CheckOut.After(b.CheckIn) {
		return failure.BadRequestFromString("check_out must be after check_in")
	}

	nights := Nights(b.CheckIn, b.CheckOut)
	b.Nights = nights

	if err := ValidateServiceDays(services, nights); err != nil {
		return err
	}

	discountPct := clampPercent(b.DiscountPercent)
	roomPct, extrasPct := 0.0, 0.0

	switch b.DiscountScope {
	case model.DiscountScopeRoom:
		roomPct = discountPct
	case model.DiscountScopeExtras:
		extrasPct = discountPct
	default:
		// TOTAL applies the percentage to each pool independently.
		roomPct = discountPct
		extrasPct = discountPct
	}

	// Room pool.
	rate := nightlyRate
	inclusiveGST := 0.0

	switch b.PricingType {
	case model.PricingTypeCustom:
		rate = b.FinalRoomPrice
	case model.PricingTypeFinalInclusive:
		// The quoted nightly price already includes GST. Split it back out
		// once here; the embedded tax rides along unchanged and is never
		// re-derived at the GST step, discounts included.
		if b.FinalRoomPrice > 0 {
			rate = Round2(b.FinalRoomPrice / (1 + GSTRate))
			inclusiveGST = Round2((b.FinalRoomPrice - rate) * float64(nights))
		} else {
			rate = b.FinalRoomPrice
		}
	}

	if rate < 0 {
		return failure.BadRequestFromString("nightly rate cannot be negative")
	}

	b.RoomBase = Round2(rate * float64(nights))
	b.RoomDiscount = Round2(b.RoomBase * roomPct / 100)
	roomNet := Round2(b.RoomBase - b.RoomDiscount)

	b.RoomGST = 0
	if b.GSTEnabled {
		if b.PricingType == model.PricingTypeFinalInclusive {
			b.RoomGST = inclusiveGST
		} else {
			b.RoomGST = Round2(roomNet * GSTRate)
		}
	}

	b.RoomTotal = Round2(roomNet + b.RoomGST)

	// Extras pool.
	extrasBase, taxableExtras := 0.0, 0.0

	for _, svc := range services {
		amount := Round2(svc.Price * float64(len(svc.Days)))
		extrasBase += amount

		if svc.GSTEnabled {
			taxableExtras += Round2(amount * (1 - extrasPct/100))
		}
	}

	b.ExtrasBase = Round2(extrasBase)
	b.ExtrasDiscount = Round2(extrasBase * extrasPct / 100)
	extrasNet := Round2(b.ExtrasBase - b.ExtrasDiscount)
	b.ExtrasGST = Round2(taxableExtras * GSTRate)
	b.ExtrasTotal = Round2(extrasNet + b.ExtrasGST)

	// Food pool arrives pre-computed.
	b.FoodSubtotal = Round2(food.Subtotal)
	b.FoodDiscount = Round2(food.Discount)
	b.FoodGST = Round2(food.GST)
	b.FoodTotal = Round2(food.Total)

	// Food GST is reported on its own; CGST and SGST halve the stay's tax.
	totalGST := Round2(b.RoomGST + b.ExtrasGST)
	b.CGST = Round2(totalGST / 2)
	b.SGST = Round2(totalGST / 2)

	grand := Round2(b.RoomTotal + b.ExtrasTotal + b.FoodTotal)

	b.RoundOff = 0
	if b.RoundOffEnabled {
		rounded := math.Round(grand)
		b.RoundOff = Round2(rounded - grand)
		grand = rounded
	}

	b.GrandTotal = grand

	paid := 0.0
	for _, adv := range advances {
		paid += adv.Amount
	}

	b.AdvancePaid = Round2(paid)
	b.BalanceDue = Round2(math.Max(0, b.GrandTotal-b.AdvancePaid))

	b.FinalPaymentReceived = b.BalanceDue == 0
	b.FinalPaymentAmount = 0
	if b.FinalPaymentReceived {
		b.FinalPaymentAmount = b.GrandTotal
	}

	return nil
}
