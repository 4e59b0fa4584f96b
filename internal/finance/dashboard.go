package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert thresholds
const (
	FulfillmentDaysThreshold    = 60
	ReturnsThreshold            = 5
	RejectedFinancingsThreshold = 3

	// AssemblyKeyword selects service categories counted as assembly work
	AssemblyKeyword = "assembly"
)

var marginDangerDeviation = decimal.NewFromInt(-5)

// AlertLevel is the severity shown on the dashboard
type AlertLevel string

const (
	AlertDanger  AlertLevel = "danger"
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
)

// Alert is computed per request and never persisted
type Alert struct {
	Level   AlertLevel
	Message string
}

// DashboardInput holds the records a dashboard is computed from.
// Sales, CreatedDeals and Stats must already be restricted to Period.
type DashboardInput struct {
	Period Period
	// Sales with Category preloaded
	Sales []domain.Sale
	// WonDeals are deals linked to one of Sales, with Sale and Activities (Role, ServiceCategory) preloaded
	WonDeals []domain.Deal
	// CreatedDeals are deals created inside the period, stage only is needed
	CreatedDeals []domain.Deal
	Stats        []domain.MonthlyManualStats
	// Budgets for the exact (year, month), ignored unless the period names one month
	Budgets []domain.Budget
	// ActiveDeals are non-terminal deals with Activities (Role) preloaded
	ActiveDeals []domain.Deal
	// Trend is only set when the period is unfiltered
	Trend *TrendInput
}

// TrendInput holds the records for the trailing monthly series
type TrendInput struct {
	Since time.Time
	// Sales dated on or after Since
	Sales []domain.Sale
	// WonDeals with Sale and Activities (Role) preloaded, linked sale dated on or after Since
	WonDeals []domain.Deal
	Stats    []domain.MonthlyManualStats
}

// PipelineKPIs summarizes the open pipeline
type PipelineKPIs struct {
	Count     int
	Value     decimal.Decimal
	LaborCost decimal.Decimal
}

// BudgetComparison compares a category's actuals with its budget
type BudgetComparison struct {
	SalesTarget            decimal.Decimal
	MarginPercentTarget    decimal.Decimal
	SalesDeviation         decimal.Decimal
	MarginPercentDeviation decimal.Decimal
}

// CategorySummary is one product category row of the dashboard
type CategorySummary struct {
	CategoryID    uuid.UUID
	Name          string
	Revenue       decimal.Decimal
	Cost          decimal.Decimal
	Margin        decimal.Decimal
	MarginPercent decimal.Decimal
	Budget        *BudgetComparison
}

// TrendPoint is one month of the trailing series
type TrendPoint struct {
	Month           time.Time
	Label           string
	Revenue         decimal.Decimal
	GrossMargin     decimal.Decimal
	OperatingProfit decimal.Decimal
}

// Dashboard is the full KPI set for a period
type Dashboard struct {
	Period Period

	ProductRevenue     decimal.Decimal
	ProductCost        decimal.Decimal
	ServiceRevenue     decimal.Decimal
	TotalRevenue       decimal.Decimal
	GrossMargin        decimal.Decimal
	GrossMarginPercent decimal.Decimal
	AverageTicket      decimal.Decimal

	SaleCount           int
	FinancedCount       int
	ReturnedCount       int
	FinancedPercent     decimal.Decimal
	ServiceSharePercent decimal.Decimal

	LaborCost       decimal.Decimal
	FixedCosts      decimal.Decimal
	MarketingCost   decimal.Decimal
	OperatingCosts  decimal.Decimal
	OperatingProfit decimal.Decimal

	RejectedFinancings int
	DealsCreated       int
	DealsLost          int
	LossRatePercent    decimal.Decimal
	CostPerLead        decimal.Decimal

	AverageFulfillmentDays int
	AverageAssemblyCost    decimal.Decimal

	Pipeline   PipelineKPIs
	Categories []CategorySummary
	Alerts     []Alert
	Trend      []TrendPoint
}

// ComputeDashboard derives every dashboard KPI from the input records
func ComputeDashboard(in DashboardInput) Dashboard {
	d := Dashboard{Period: in.Period}

	for i := range in.Sales {
		s := &in.Sales[i]
		d.ProductRevenue = d.ProductRevenue.Add(s.SalePrice)
		d.ProductCost = d.ProductCost.Add(s.PurchaseCost)
		d.SaleCount++
		if s.Financed {
			d.FinancedCount++
		}
		if s.Returned {
			d.ReturnedCount++
		}
	}

	var assemblyCost decimal.Decimal
	for i := range in.WonDeals {
		deal := &in.WonDeals[i]
		for j := range deal.Activities {
			a := &deal.Activities[j]
			cost := ActivityCost(a)
			d.ServiceRevenue = d.ServiceRevenue.Add(a.SalePrice)
			d.LaborCost = d.LaborCost.Add(cost)
			if isAssembly(a) {
				assemblyCost = assemblyCost.Add(cost)
			}
		}
	}

	// Labor is an operating cost, not cost of goods sold
	d.TotalRevenue = d.ProductRevenue.Add(d.ServiceRevenue)
	d.GrossMargin = d.TotalRevenue.Sub(d.ProductCost)
	d.GrossMarginPercent = Percent(d.GrossMargin, d.TotalRevenue)
	saleCount := decimal.NewFromInt(int64(d.SaleCount))
	d.AverageTicket = Ratio(d.TotalRevenue, saleCount)
	d.FinancedPercent = Percent(decimal.NewFromInt(int64(d.FinancedCount)), saleCount)
	d.ServiceSharePercent = Percent(d.ServiceRevenue, d.TotalRevenue)
	d.AverageAssemblyCost = Ratio(assemblyCost, saleCount)

	for i := range in.Stats {
		st := &in.Stats[i]
		d.FixedCosts = d.FixedCosts.Add(st.FixedCosts)
		d.MarketingCost = d.MarketingCost.Add(st.MarketingCost)
		d.RejectedFinancings += st.RejectedFinancings
	}
	d.OperatingCosts = d.FixedCosts.Add(d.LaborCost).Add(d.MarketingCost)
	d.OperatingProfit = d.GrossMargin.Sub(d.OperatingCosts)

	d.DealsCreated = len(in.CreatedDeals)
	for i := range in.CreatedDeals {
		if in.CreatedDeals[i].Stage == domain.DealStageLost {
			d.DealsLost++
		}
	}
	created := decimal.NewFromInt(int64(d.DealsCreated))
	d.LossRatePercent = Percent(decimal.NewFromInt(int64(d.DealsLost)), created)
	d.CostPerLead = Ratio(d.MarketingCost, created)

	d.AverageFulfillmentDays = averageFulfillmentDays(in.WonDeals)
	d.Pipeline = pipelineKPIs(in.ActiveDeals)

	var budgets []domain.Budget
	if in.Period.HasYearAndMonth() {
		budgets = in.Budgets
	}
	d.Categories = categorySummaries(in.Sales, budgets)
	d.Alerts = buildAlerts(&d)

	if in.Trend != nil && !in.Period.IsFiltered() {
		d.Trend = ComputeTrend(*in.Trend)
	}

	return d
}

func isAssembly(a *domain.Activity) bool {
	if a.ServiceCategory == nil {
		return false
	}
	return strings.Contains(strings.ToLower(a.ServiceCategory.Name), AssemblyKeyword)
}

// averageFulfillmentDays is the whole-day mean of (sale date - creation date) over won deals
func averageFulfillmentDays(won []domain.Deal) int {
	var total time.Duration
	n := 0
	for i := range won {
		deal := &won[i]
		if deal.Sale == nil {
			continue
		}
		total += dateOnly(deal.Sale.SaleDate).Sub(dateOnly(deal.CreatedAt))
		n++
	}
	if n == 0 {
		return 0
	}
	avg := total / time.Duration(n)
	days := int(avg / (24 * time.Hour))
	if avg < 0 && avg%(24*time.Hour) != 0 {
		days--
	}
	return days
}

func pipelineKPIs(active []domain.Deal) PipelineKPIs {
	var p PipelineKPIs
	for i := range active {
		f := ForDeal(&active[i])
		p.Count++
		p.Value = p.Value.Add(f.TotalValue)
		p.LaborCost = p.LaborCost.Add(f.LaborCost)
	}
	return p
}

func categorySummaries(sales []domain.Sale, budgets []domain.Budget) []CategorySummary {
	byID := make(map[uuid.UUID]*CategorySummary)
	for i := range sales {
		s := &sales[i]
		cs, ok := byID[s.CategoryID]
		if !ok {
			cs = &CategorySummary{CategoryID: s.CategoryID}
			if s.Category != nil {
				cs.Name = s.Category.Name
			}
			byID[s.CategoryID] = cs
		}
		cs.Revenue = cs.Revenue.Add(s.SalePrice)
		cs.Cost = cs.Cost.Add(s.PurchaseCost)
	}

	budgetByCategory := make(map[uuid.UUID]*domain.Budget, len(budgets))
	for i := range budgets {
		budgetByCategory[budgets[i].CategoryID] = &budgets[i]
	}

	out := make([]CategorySummary, 0, len(byID))
	for _, cs := range byID {
		if !cs.Revenue.IsPositive() {
			continue
		}
		cs.Margin = cs.Revenue.Sub(cs.Cost)
		cs.MarginPercent = Percent(cs.Margin, cs.Revenue).Round(2)
		if b, ok := budgetByCategory[cs.CategoryID]; ok {
			cs.Budget = &BudgetComparison{
				SalesTarget:            b.SalesTarget,
				MarginPercentTarget:    b.MarginPercentTarget,
				SalesDeviation:         cs.Revenue.Sub(b.SalesTarget),
				MarginPercentDeviation: cs.MarginPercent.Sub(b.MarginPercentTarget),
			}
		}
		out = append(out, *cs)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func buildAlerts(d *Dashboard) []Alert {
	alerts := make([]Alert, 0)

	for _, c := range d.Categories {
		if c.Budget == nil {
			continue
		}
		dev := c.Budget.MarginPercentDeviation
		switch {
		case dev.LessThan(marginDangerDeviation):
			alerts = append(alerts, Alert{
				Level: AlertDanger,
				Message: fmt.Sprintf("Category margin '%s' sharply down: %s%% (budget %s%%)",
					c.Name, c.MarginPercent.StringFixed(2), c.Budget.MarginPercentTarget.StringFixed(2)),
			})
		case dev.IsNegative():
			alerts = append(alerts, Alert{
				Level: AlertWarning,
				Message: fmt.Sprintf("Category margin '%s' below budget: %s%% (budget %s%%)",
					c.Name, c.MarginPercent.StringFixed(2), c.Budget.MarginPercentTarget.StringFixed(2)),
			})
		}
	}

	if d.AverageFulfillmentDays > FulfillmentDaysThreshold {
		alerts = append(alerts, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("Average fulfillment time over threshold: %d days", d.AverageFulfillmentDays),
		})
	}
	if d.ReturnedCount > ReturnsThreshold {
		alerts = append(alerts, Alert{
			Level:   AlertDanger,
			Message: fmt.Sprintf("High number of returns: %d cases", d.ReturnedCount),
		})
	}
	if d.RejectedFinancings > RejectedFinancingsThreshold {
		alerts = append(alerts, Alert{
			Level:   AlertInfo,
			Message: fmt.Sprintf("Rejected financing applications: %d cases", d.RejectedFinancings),
		})
	}
	return alerts
}

type monthBucket struct {
	productRevenue decimal.Decimal
	productCost    decimal.Decimal
	serviceRevenue decimal.Decimal
	laborCost      decimal.Decimal
}

// ComputeTrend buckets sales and won-deal activities by month (activities by
// their deal's sale date) and prices each month against its own manual stats.
func ComputeTrend(in TrendInput) []TrendPoint {
	since := dateOnly(in.Since)
	buckets := make(map[time.Time]*monthBucket)
	bucket := func(t time.Time) *monthBucket {
		key := monthStart(t)
		b, ok := buckets[key]
		if !ok {
			b = &monthBucket{}
			buckets[key] = b
		}
		return b
	}

	for i := range in.Sales {
		s := &in.Sales[i]
		if s.SaleDate.Before(since) {
			continue
		}
		b := bucket(s.SaleDate)
		b.productRevenue = b.productRevenue.Add(s.SalePrice)
		b.productCost = b.productCost.Add(s.PurchaseCost)
	}

	for i := range in.WonDeals {
		deal := &in.WonDeals[i]
		if deal.Sale == nil || deal.Sale.SaleDate.Before(since) || len(deal.Activities) == 0 {
			continue
		}
		b := bucket(deal.Sale.SaleDate)
		for j := range deal.Activities {
			a := &deal.Activities[j]
			b.serviceRevenue = b.serviceRevenue.Add(a.SalePrice)
			b.laborCost = b.laborCost.Add(ActivityCost(a))
		}
	}

	type monthKey struct{ year, month int }
	stats := make(map[monthKey]*domain.MonthlyManualStats, len(in.Stats))
	for i := range in.Stats {
		stats[monthKey{in.Stats[i].Year, in.Stats[i].Month}] = &in.Stats[i]
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	points := make([]TrendPoint, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		revenue := b.productRevenue.Add(b.serviceRevenue)
		margin := revenue.Sub(b.productCost)
		opCosts := b.laborCost
		if st, ok := stats[monthKey{m.Year(), int(m.Month())}]; ok {
			opCosts = opCosts.Add(st.FixedCosts).Add(st.MarketingCost)
		}
		points = append(points, TrendPoint{
			Month:           m,
			Label:           m.Format("01/2006"),
			Revenue:         revenue,
			GrossMargin:     margin,
			OperatingProfit: margin.Sub(opCosts),
		})
	}
	return points
}
