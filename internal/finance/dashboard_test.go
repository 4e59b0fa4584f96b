package finance

import (
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stats(year, month int, fixed, marketing string, rejected int) domain.MonthlyManualStats {
	return domain.MonthlyManualStats{Year: year, Month: month, FixedCosts: dec(fixed), MarketingCost: dec(marketing), RejectedFinancings: rejected}
}

func TestComputeDashboard_GrossMarginExcludesLabor(t *testing.T) {
	kitchens := category("Kitchens")
	s := sale(kitchens, "1000", "600", day(2024, 3, 10))

	d := ComputeDashboard(DashboardInput{
		Period: Period{Year: 2024, Month: 3},
		Sales:  []domain.Sale{s},
		Stats:  []domain.MonthlyManualStats{stats(2024, 3, "100", "50", 0)},
	})

	assert.Equal(t, "400", d.GrossMargin.String())
	assert.Equal(t, "40", d.GrossMarginPercent.String())
	assert.Equal(t, "250", d.OperatingProfit.String())
	assert.Equal(t, "1000", d.AverageTicket.String())
	assert.Equal(t, 1, d.SaleCount)
	assert.Empty(t, d.Trend, "no trend for a filtered period")
}

func TestComputeDashboard_ServicesAndLabor(t *testing.T) {
	kitchens := category("Kitchens")
	fitter := role("Fitter", "20")
	assembly := &domain.ServiceCategory{Name: "Kitchen Assembly"}
	design := &domain.ServiceCategory{Name: "Design"}

	a1 := activity(fitter, "2", "200")
	a1.ServiceCategory = assembly
	a2 := activity(fitter, "1", "50")
	a2.ServiceCategory = design

	s := sale(kitchens, "1000", "600", day(2024, 3, 20))
	s.Financed = true
	won := wonDeal(s, day(2024, 3, 1), a1, a2)

	lost := deal("500", "300")
	lost.Stage = domain.DealStageLost
	open := deal("2000", "1000", activity(fitter, "3", "0"))

	d := ComputeDashboard(DashboardInput{
		Period:       Period{Year: 2024},
		Sales:        []domain.Sale{s, sale(kitchens, "500", "300", day(2024, 4, 2))},
		WonDeals:     []domain.Deal{won},
		CreatedDeals: []domain.Deal{won, lost, open, deal("0", "0")},
		Stats:        []domain.MonthlyManualStats{stats(2024, 3, "100", "40", 1), stats(2024, 4, "100", "40", 3)},
		ActiveDeals:  []domain.Deal{open},
	})

	assert.Equal(t, "1500", d.ProductRevenue.String())
	assert.Equal(t, "250", d.ServiceRevenue.String())
	assert.Equal(t, "1750", d.TotalRevenue.String())
	assert.Equal(t, "850", d.GrossMargin.String())
	assert.Equal(t, "60", d.LaborCost.String())
	assert.Equal(t, "200", d.FixedCosts.String())
	assert.Equal(t, "80", d.MarketingCost.String())
	assert.Equal(t, "340", d.OperatingCosts.String())
	assert.Equal(t, "510", d.OperatingProfit.String())
	assert.Equal(t, "875", d.AverageTicket.String())
	assert.Equal(t, "50", d.FinancedPercent.String())
	assert.Equal(t, "14.29", d.ServiceSharePercent.StringFixed(2))

	assert.Equal(t, 4, d.DealsCreated)
	assert.Equal(t, 1, d.DealsLost)
	assert.Equal(t, "25", d.LossRatePercent.String())
	assert.Equal(t, "20", d.CostPerLead.String())

	assert.Equal(t, 19, d.AverageFulfillmentDays)
	assert.Equal(t, "20", d.AverageAssemblyCost.String(), "assembly labor 40 over 2 sales")
	assert.Equal(t, 4, d.RejectedFinancings)

	assert.Equal(t, 1, d.Pipeline.Count)
	assert.Equal(t, "2000", d.Pipeline.Value.String())
	assert.Equal(t, "60", d.Pipeline.LaborCost.String())

	require.Len(t, d.Alerts, 1)
	assert.Equal(t, AlertInfo, d.Alerts[0].Level)
	assert.Equal(t, "Rejected financing applications: 4 cases", d.Alerts[0].Message)
}

func TestComputeDashboard_EmptyPeriod(t *testing.T) {
	d := ComputeDashboard(DashboardInput{Period: Period{Year: 2030, Month: 1}})

	assert.True(t, d.GrossMarginPercent.IsZero())
	assert.True(t, d.AverageTicket.IsZero())
	assert.True(t, d.LossRatePercent.IsZero())
	assert.True(t, d.CostPerLead.IsZero())
	assert.Zero(t, d.AverageFulfillmentDays)
	assert.Empty(t, d.Categories)
	assert.Empty(t, d.Alerts)
}

func TestComputeDashboard_CategoryBudgets(t *testing.T) {
	sofas := category("Sofas")
	beds := category("Beds")
	tables := category("Tables")

	budget := func(c *domain.ProductCategory, sales, margin string) domain.Budget {
		return domain.Budget{Year: 2024, Month: 5, CategoryID: c.ID, SalesTarget: dec(sales), MarginPercentTarget: dec(margin)}
	}

	in := DashboardInput{
		Period: Period{Year: 2024, Month: 5},
		Sales: []domain.Sale{
			sale(sofas, "1000", "750", day(2024, 5, 3)),
			sale(beds, "3000", "2220", day(2024, 5, 4)),
			sale(tables, "500", "250", day(2024, 5, 5)),
		},
		Budgets: []domain.Budget{
			budget(sofas, "1500", "32"),
			budget(beds, "2000", "27"),
		},
	}

	d := ComputeDashboard(in)

	require.Len(t, d.Categories, 3)
	assert.Equal(t, "Beds", d.Categories[0].Name, "ordered by revenue")
	assert.Equal(t, "Sofas", d.Categories[1].Name)
	assert.Equal(t, "Tables", d.Categories[2].Name)

	sofa := d.Categories[1]
	require.NotNil(t, sofa.Budget)
	assert.Equal(t, "25", sofa.MarginPercent.String())
	assert.Equal(t, "-7", sofa.Budget.MarginPercentDeviation.String())
	assert.Equal(t, "-500", sofa.Budget.SalesDeviation.String())
	assert.Nil(t, d.Categories[2].Budget)

	require.Len(t, d.Alerts, 2)
	assert.Equal(t, AlertWarning, d.Alerts[0].Level)
	assert.Equal(t, "Category margin 'Beds' below budget: 26.00% (budget 27.00%)", d.Alerts[0].Message)
	assert.Equal(t, AlertDanger, d.Alerts[1].Level)
	assert.Equal(t, "Category margin 'Sofas' sharply down: 25.00% (budget 32.00%)", d.Alerts[1].Message)

	t.Run("budgets ignored without a month", func(t *testing.T) {
		in.Period = Period{Year: 2024}
		d := ComputeDashboard(in)
		for _, c := range d.Categories {
			assert.Nil(t, c.Budget)
		}
		assert.Empty(t, d.Alerts)
	})
}

func TestComputeDashboard_OperationalAlerts(t *testing.T) {
	c := category("Wardrobes")
	var sales []domain.Sale
	for i := 0; i < 6; i++ {
		s := sale(c, "100", "50", day(2024, 6, 1+i))
		s.Returned = true
		sales = append(sales, s)
	}
	slow := wonDeal(sales[0], day(2024, 3, 1))

	d := ComputeDashboard(DashboardInput{
		Period:   Period{Year: 2024, Month: 6},
		Sales:    sales,
		WonDeals: []domain.Deal{slow},
	})

	assert.Equal(t, 92, d.AverageFulfillmentDays)
	require.Len(t, d.Alerts, 2)
	assert.Equal(t, Alert{Level: AlertWarning, Message: "Average fulfillment time over threshold: 92 days"}, d.Alerts[0])
	assert.Equal(t, Alert{Level: AlertDanger, Message: "High number of returns: 6 cases"}, d.Alerts[1])
}

func TestComputeTrend(t *testing.T) {
	c := category("Kitchens")
	fitter := role("Fitter", "25")
	since := day(2024, 1, 15)

	febSale := sale(c, "1000", "600", day(2024, 2, 10))
	won := wonDeal(sale(c, "0", "0", day(2024, 4, 5)), day(2024, 3, 1), activity(fitter, "2", "300"))

	points := ComputeTrend(TrendInput{
		Since: since,
		Sales: []domain.Sale{
			febSale,
			sale(c, "500", "200", day(2024, 2, 20)),
			sale(c, "800", "400", day(2023, 12, 1)), // before the window
		},
		WonDeals: []domain.Deal{won},
		Stats: []domain.MonthlyManualStats{
			stats(2024, 2, "100", "50", 0),
			stats(2024, 4, "10", "0", 0),
		},
	})

	require.Len(t, points, 2)

	assert.Equal(t, "02/2024", points[0].Label)
	assert.Equal(t, "1500", points[0].Revenue.String())
	assert.Equal(t, "700", points[0].GrossMargin.String())
	assert.Equal(t, "550", points[0].OperatingProfit.String())

	assert.Equal(t, "04/2024", points[1].Label, "services bucket by the sale date")
	assert.Equal(t, "300", points[1].Revenue.String())
	assert.Equal(t, "300", points[1].GrossMargin.String())
	assert.Equal(t, "240", points[1].OperatingProfit.String())
}

func TestComputeDashboard_TrendOnlyWhenUnfiltered(t *testing.T) {
	c := category("Kitchens")
	trend := &TrendInput{Since: day(2024, 1, 1), Sales: []domain.Sale{sale(c, "10", "5", day(2024, 2, 1))}}

	d := ComputeDashboard(DashboardInput{Trend: trend})
	assert.Len(t, d.Trend, 1)

	d = ComputeDashboard(DashboardInput{Period: Period{Month: 2}, Trend: trend})
	assert.Empty(t, d.Trend)
}

func TestPeriod(t *testing.T) {
	ts := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)

	assert.True(t, Period{}.Contains(ts))
	assert.True(t, Period{Year: 2024}.Contains(ts))
	assert.True(t, Period{Month: 3}.Contains(ts))
	assert.False(t, Period{Year: 2024, Month: 4}.Contains(ts))
	assert.True(t, Period{Year: 2024, Month: 3}.ContainsMonth(2024, 3))
	assert.False(t, Period{Month: 3}.ContainsMonth(2024, 4))

	assert.Equal(t, "All time", Period{}.Title())
	assert.Equal(t, "Year 2024", Period{Year: 2024}.Title())
	assert.Equal(t, "3/2024", Period{Year: 2024, Month: 3}.Title())
	assert.False(t, Period{}.IsFiltered())
	assert.False(t, Period{Year: 2024}.HasYearAndMonth())
}

func TestPeriod_Range(t *testing.T) {
	_, _, ok := Period{Month: 3}.Range()
	assert.False(t, ok)

	from, to, ok := Period{Year: 2024}.Range()
	require.True(t, ok)
	assert.Equal(t, day(2024, 1, 1), from)
	assert.Equal(t, day(2025, 1, 1), to)

	from, to, ok = Period{Year: 2024, Month: 12}.Range()
	require.True(t, ok)
	assert.Equal(t, day(2024, 12, 1), from)
	assert.Equal(t, day(2025, 1, 1), to)
}
