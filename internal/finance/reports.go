package finance

import (
	"sort"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoleLabor is the logged labor of one role
type RoleLabor struct {
	RoleID   uuid.UUID
	RoleName string
	LaborTotals
}

// LaborByRole groups activities by role, most expensive first.
// Activities without a role are left out.
func LaborByRole(activities []domain.Activity) []RoleLabor {
	byRole := make(map[uuid.UUID]*RoleLabor)
	for i := range activities {
		a := &activities[i]
		if a.Role == nil {
			continue
		}
		rl, ok := byRole[a.Role.ID]
		if !ok {
			rl = &RoleLabor{RoleID: a.Role.ID, RoleName: a.Role.Name}
			byRole[a.Role.ID] = rl
		}
		rl.Add(a)
	}

	out := make([]RoleLabor, 0, len(byRole))
	for _, rl := range byRole {
		out = append(out, *rl)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Cost.Equal(out[j].Cost) {
			return out[i].Cost.GreaterThan(out[j].Cost)
		}
		return out[i].RoleName < out[j].RoleName
	})
	return out
}

// DealLabor is the logged labor of one deal
type DealLabor struct {
	Deal *domain.Deal
	LaborTotals
}

// LaborByDeal returns deals that have activities, most expensive first
func LaborByDeal(deals []domain.Deal) []DealLabor {
	out := make([]DealLabor, 0, len(deals))
	for i := range deals {
		d := &deals[i]
		if len(d.Activities) == 0 {
			continue
		}
		dl := DealLabor{Deal: d}
		for j := range d.Activities {
			dl.Add(&d.Activities[j])
		}
		out = append(out, dl)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost.GreaterThan(out[j].Cost)
	})
	return out
}

// TotalLaborCost sums the labor cost of all activities
func TotalLaborCost(activities []domain.Activity) decimal.Decimal {
	var t LaborTotals
	for i := range activities {
		t.Add(&activities[i])
	}
	return t.Cost
}

// SalespersonStats are the sales figures of one salesperson
type SalespersonStats struct {
	UserID        uuid.UUID
	Name          string
	Revenue       decimal.Decimal
	Cost          decimal.Decimal
	Margin        decimal.Decimal
	MarginPercent decimal.Decimal
	AverageTicket decimal.Decimal
	SaleCount     int
}

// BySalesperson groups sales per salesperson, highest revenue first.
// Sales without a salesperson are left out. Salesperson must be preloaded for names.
func BySalesperson(sales []domain.Sale) []SalespersonStats {
	byUser := make(map[uuid.UUID]*SalespersonStats)
	for i := range sales {
		s := &sales[i]
		if s.SalespersonID == nil {
			continue
		}
		st, ok := byUser[*s.SalespersonID]
		if !ok {
			st = &SalespersonStats{UserID: *s.SalespersonID, Name: s.Salesperson.DisplayName()}
			byUser[*s.SalespersonID] = st
		}
		st.Revenue = st.Revenue.Add(s.SalePrice)
		st.Cost = st.Cost.Add(s.PurchaseCost)
		st.SaleCount++
	}

	out := make([]SalespersonStats, 0, len(byUser))
	for _, st := range byUser {
		st.Margin = st.Revenue.Sub(st.Cost)
		st.MarginPercent = Percent(st.Margin, st.Revenue)
		st.AverageTicket = Ratio(st.Revenue, decimal.NewFromInt(int64(st.SaleCount)))
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
