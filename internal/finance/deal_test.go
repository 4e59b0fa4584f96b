package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForDeal_NoActivities(t *testing.T) {
	tests := []struct {
		value, cost string
	}{
		{"1000", "600"},
		{"0", "0"},
		{"250.50", "300"},
	}
	for _, tt := range tests {
		t.Run(tt.value+"-"+tt.cost, func(t *testing.T) {
			d := deal(tt.value, tt.cost)
			f := ForDeal(&d)

			assert.True(t, f.ServiceRevenue.IsZero())
			assert.True(t, f.LaborCost.IsZero())
			assert.True(t, f.MarginAmount.Equal(dec(tt.value).Sub(dec(tt.cost))))
		})
	}
}

func TestForDeal_WithActivities(t *testing.T) {
	tech := role("Technician", "20")
	d := deal("1000", "600",
		activity(tech, "2", "100"),
		activity(tech, "1.5", "50"),
		activity(nil, "3", "30"), // role deleted: hours cost nothing
	)

	f := ForDeal(&d)

	assert.Equal(t, "180", f.ServiceRevenue.String())
	assert.Equal(t, "70", f.LaborCost.String())
	assert.Equal(t, "6.5", f.LaborHours.String())
	assert.Equal(t, "1180", f.TotalValue.String())
	assert.Equal(t, "670", f.TotalCost.String())
	assert.Equal(t, "510", f.MarginAmount.String())
	assert.Equal(t, "43.22", f.MarginPercent.StringFixed(2))
}

func TestForDeal_ZeroValueHasZeroMarginPercent(t *testing.T) {
	tech := role("Technician", "30")
	for _, cost := range []string{"0", "100", "999999"} {
		d := deal("0", cost, activity(tech, "4", "0"))
		f := ForDeal(&d)
		assert.True(t, f.TotalValue.IsZero())
		assert.True(t, f.MarginPercent.IsZero(), "cost %s", cost)
	}
}

func TestActivityCost(t *testing.T) {
	a := activity(role("Designer", "35.50"), "2.5", "0")
	assert.Equal(t, "88.75", ActivityCost(&a).String())

	orphan := activity(nil, "8", "0")
	assert.True(t, ActivityCost(&orphan).IsZero())
}

func TestPercentAndRatio(t *testing.T) {
	assert.Equal(t, "40", Percent(dec("400"), dec("1000")).String())
	assert.True(t, Percent(dec("400"), dec("0")).IsZero())
	assert.Equal(t, "2.5", Ratio(dec("5"), dec("2")).String())
	assert.True(t, Ratio(dec("5"), dec("0")).IsZero())
}
