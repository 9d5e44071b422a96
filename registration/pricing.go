package registration

import (
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// Organizers enter prices as free text ("15", "15,50", "€20", "free"). The
// platform charges in euros and adds a percentage service fee on top.
const (
	PlatformFeePercent = 10
	chargeCurrency     = money.EUR
)

// PriceCents resolves a seminar's price text to minor currency units.
// Anything that does not parse to a positive number means the seminar is
// free: a seminar must always stay registrable no matter what the organizer
// typed into the price field.
func PriceCents(priceText string) int64 {
	s := strings.TrimSpace(priceText)
	if s == "" {
		return 0
	}

	// Accept a comma as the decimal separator, then drop currency symbols
	// and anything else that isn't part of a number.
	s = strings.Replace(s, ",", ".", 1)
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	num, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || num <= 0 {
		return 0
	}

	return int64(num*100 + 0.5)
}

// PlatformFeeCents is the service fee for a given charge, rounded to the
// nearest cent. Zero when the charge is zero.
func PlatformFeeCents(chargeCents int64) int64 {
	return (chargeCents*PlatformFeePercent + 50) / 100
}

// SplitGatewayTotal takes the total a checkout session charged (base price
// plus the fee line item) and splits it back into charge and fee. The split
// works off the total alone because the listed price may have changed since
// the session was created; what the gateway reports is the source of truth.
func SplitGatewayTotal(total *money.Money) (charge *money.Money, fee *money.Money) {
	feeCents := (total.Amount()*PlatformFeePercent + (100+PlatformFeePercent)/2) / (100 + PlatformFeePercent)
	currency := total.Currency().Code
	return money.New(total.Amount()-feeCents, currency), money.New(feeCents, currency)
}

func Charge(priceText string) *money.Money {
	return money.New(PriceCents(priceText), chargeCurrency)
}

func PlatformFee(charge *money.Money) *money.Money {
	return money.New(PlatformFeeCents(charge.Amount()), charge.Currency().Code)
}
