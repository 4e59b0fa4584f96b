package finance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// plainAmount matches a signed number without exponent
var plainAmount = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// maxAmount bounds typed amounts; larger values read as zero
var maxAmount = decimal.New(1, 12)

// ParseAmount reads a user-typed number, accepting a comma as decimal separator.
// Anything unparseable, written with an exponent or above maxAmount reads as zero.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if !plainAmount.MatchString(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Abs().GreaterThan(maxAmount) {
		return decimal.Zero
	}
	return d
}

// Advisory is the non-blocking price check for a service activity
type Advisory struct {
	Cost             decimal.Decimal
	MinimumPrice     decimal.Decimal
	ThresholdPercent decimal.Decimal
	Show             bool
	Message          string
}

// AdviseActivityPrice compares a proposed price with the labor cost plus the minimum margin.
// hourlyRate is zero when the role is unknown.
func AdviseActivityPrice(hourlyRate decimal.Decimal, hoursRaw, priceRaw string, thresholdPercent decimal.Decimal) Advisory {
	hours := ParseAmount(hoursRaw)
	price := ParseAmount(priceRaw)

	adv := Advisory{
		Cost:             hours.Mul(hourlyRate),
		ThresholdPercent: thresholdPercent,
	}
	if !adv.Cost.IsPositive() {
		return adv
	}

	adv.MinimumPrice = adv.Cost.Mul(decimal.NewFromInt(1).Add(thresholdPercent.Div(hundred)))

	switch {
	case !price.IsPositive():
		adv.Show = true
		adv.Message = fmt.Sprintf("(Offering a service at €0.00 that costs € %s)", adv.Cost.StringFixed(2))
	case price.LessThan(adv.MinimumPrice):
		adv.Show = true
		adv.Message = fmt.Sprintf("(Suggested min. price: € %s)", adv.MinimumPrice.StringFixed(2))
	}
	return adv
}
