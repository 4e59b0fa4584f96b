// Package finance computes deal, period and report figures from in-memory
// records. Callers load the records; nothing here touches the database.
package finance

import (
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole*100, or zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// Ratio returns part/whole, or zero when whole is zero
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole)
}

// HourlyRate returns the rate of the activity's role, zero when the role is missing
func HourlyRate(a *domain.Activity) decimal.Decimal {
	if a.Role == nil {
		return decimal.Zero
	}
	return a.Role.HourlyRate
}

// ActivityCost is hours times the role's hourly rate
func ActivityCost(a *domain.Activity) decimal.Decimal {
	return a.Hours.Mul(HourlyRate(a))
}

// LaborTotals sums hours and cost over activities
type LaborTotals struct {
	Hours decimal.Decimal
	Cost  decimal.Decimal
}

// Add accumulates one activity
func (t *LaborTotals) Add(a *domain.Activity) {
	t.Hours = t.Hours.Add(a.Hours)
	t.Cost = t.Cost.Add(ActivityCost(a))
}

// DealFinancials are the per-deal figures shown on the board, list, detail and export
type DealFinancials struct {
	ServiceRevenue decimal.Decimal
	LaborCost      decimal.Decimal
	LaborHours     decimal.Decimal
	TotalValue     decimal.Decimal
	TotalCost      decimal.Decimal
	MarginAmount   decimal.Decimal
	MarginPercent  decimal.Decimal
}

// ForDeal computes the financials of a deal from its loaded activities.
// Activities must have their Role preloaded; a nil role costs nothing.
func ForDeal(d *domain.Deal) DealFinancials {
	var f DealFinancials
	var labor LaborTotals
	for i := range d.Activities {
		a := &d.Activities[i]
		f.ServiceRevenue = f.ServiceRevenue.Add(a.SalePrice)
		labor.Add(a)
	}
	f.LaborCost = labor.Cost
	f.LaborHours = labor.Hours
	f.TotalValue = d.EstimatedProductValue.Add(f.ServiceRevenue)
	f.TotalCost = d.EstimatedProductCost.Add(f.LaborCost)
	f.MarginAmount = f.TotalValue.Sub(f.TotalCost)
	f.MarginPercent = Percent(f.MarginAmount, f.TotalValue)
	return f
}
