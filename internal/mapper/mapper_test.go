package mapper_test

import (
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, 10.01, mapper.Money(dec("10.005")))
	assert.Equal(t, 0.0, mapper.Money(decimal.Zero))
	assert.Equal(t, -3.33, mapper.Money(dec("-3.333")))
}

func TestToUserDTO(t *testing.T) {
	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "sara@example.com",
		IsStaff:   true,
		IsActive:  true,
	}

	dto := mapper.ToUserDTO(user)
	assert.Equal(t, "sara@example.com", dto.Name, "falls back to the email without a name")
	assert.Nil(t, dto.HourlyRate)

	user.Name = "Sara"
	user.Profile = &domain.UserProfile{HourlyRate: dec("25")}
	dto = mapper.ToUserDTO(user)
	assert.Equal(t, "Sara", dto.Name)
	require.NotNil(t, dto.HourlyRate)
	assert.Equal(t, 25.0, *dto.HourlyRate)
}

func TestToSaleDTO(t *testing.T) {
	sale := &domain.Sale{
		Description:  "Sofa",
		SalePrice:    dec("1200"),
		PurchaseCost: dec("700.50"),
		SaleDate:     time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Category:     &domain.ProductCategory{Name: "Living"},
		Salesperson:  &domain.User{Name: "Sara"},
	}

	dto := mapper.ToSaleDTO(sale)
	assert.Equal(t, 499.5, dto.UnitGrossMargin)
	assert.Equal(t, "2024-03-05", dto.SaleDate)
	assert.Equal(t, "Living", dto.CategoryName)
	assert.Equal(t, "Sara", dto.SalespersonName)
}

func TestToDealDTO(t *testing.T) {
	role := &domain.HourlyRoleCost{Name: "Fitter", HourlyRate: dec("20")}
	deal := &domain.Deal{
		Title:                 "Kitchen",
		Stage:                 domain.DealStageQuoteSent,
		EstimatedProductValue: dec("1000"),
		EstimatedProductCost:  dec("600"),
		Activities: []domain.Activity{
			{Description: "Install", Hours: dec("5"), SalePrice: dec("150"), Role: role},
			{Description: "Visit", Hours: dec("1"), SalePrice: dec("0")},
		},
	}

	dto := mapper.ToDealDTO(deal)
	assert.Equal(t, domain.DealStageQuoteSent.Label(), dto.StageLabel)
	assert.Equal(t, 150.0, dto.Financials.ServiceRevenue)
	assert.Equal(t, 100.0, dto.Financials.LaborCost)
	assert.Equal(t, 1150.0, dto.Financials.TotalValue)

	detail := mapper.ToDealDetailDTO(deal)
	require.Len(t, detail.Activities, 2)
	assert.Equal(t, "Fitter", detail.Activities[0].RoleName)
	assert.Equal(t, 100.0, detail.Activities[0].Cost)
	assert.Equal(t, 0.0, detail.Activities[1].Cost, "activities without a role cost nothing")
	assert.NotNil(t, detail.Messages)
	assert.Nil(t, detail.Sale)
}

func TestToPeriodDTO(t *testing.T) {
	tests := []struct {
		name      string
		period    finance.Period
		wantTitle string
		wantYear  bool
		wantMonth bool
	}{
		{"all time", finance.Period{}, "All time", false, false},
		{"year only", finance.Period{Year: 2024}, "Year 2024", true, false},
		{"month only", finance.Period{Month: 3}, "Month 3 (all years)", false, true},
		{"year and month", finance.Period{Year: 2024, Month: 3}, "3/2024", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := mapper.ToPeriodDTO(tt.period)
			assert.Equal(t, tt.wantTitle, dto.Title)
			assert.Equal(t, tt.period.IsFiltered(), dto.Filtered)
			assert.Equal(t, tt.wantYear, dto.Year != nil)
			assert.Equal(t, tt.wantMonth, dto.Month != nil)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := mapper.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-02-29", mapper.FormatDate(d))

	_, err = mapper.ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = mapper.ParseDate("29/02/2024")
	assert.Error(t, err)
}
