package service_test

import (
	"testing"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()
	sofas := testutil.CreateTestCategory(t, f.db, "Sofas")
	seller := testutil.CreateTestUser(t, f.db, "Gino", true)

	sale, err := f.sales.Create(ctx, &domain.SaleRequest{
		Description:   "Leather sofa",
		CategoryID:    sofas.ID,
		SalePrice:     1999.99,
		PurchaseCost:  1200,
		SaleDate:      "2024-02-29",
		SalespersonID: &seller.ID,
		Returned:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", sale.SaleDate)
	assert.Equal(t, 799.99, sale.UnitGrossMargin)
	assert.Equal(t, "Gino", sale.SalespersonName)
	assert.True(t, sale.Returned)

	updated, err := f.sales.Update(ctx, sale.ID, &domain.SaleRequest{
		Description: "Leather sofa",
		CategoryID:  sofas.ID,
		SalePrice:   1800,
		SaleDate:    "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1800.0, updated.SalePrice)
	assert.Nil(t, updated.SalespersonID)

	require.NoError(t, f.sales.Delete(ctx, sale.ID))
	_, err = f.sales.GetByID(ctx, sale.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.sales.Create(ctx, &domain.SaleRequest{Description: "x", CategoryID: uuid.New(), SaleDate: "2024-01-01"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	unknown := uuid.New()
	_, err = f.sales.Create(ctx, &domain.SaleRequest{Description: "x", CategoryID: sofas.ID, SaleDate: "2024-01-01", SalespersonID: &unknown})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSaleService_DeleteUnlinksDeal(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()
	beds := testutil.CreateTestCategory(t, f.db, "Beds")
	sale := testutil.CreateTestSale(t, f.db, beds, "900", "500", testutil.Date(2024, 4, 2))
	deal := testutil.CreateTestDeal(t, f.db, "Bed", domain.DealStageAssembly, "900", "500")
	testutil.LinkSale(t, f.db, deal, sale)

	require.NoError(t, f.sales.Delete(ctx, sale.ID))

	got, err := f.deals.GetByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SaleID)
	assert.Equal(t, domain.DealStageWon, got.Stage)
}

func TestSaleService_List(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()
	sofas := testutil.CreateTestCategory(t, f.db, "Sofas")
	beds := testutil.CreateTestCategory(t, f.db, "Beds")

	testutil.CreateTestSale(t, f.db, sofas, "100", "50", testutil.Date(2023, 3, 10))
	testutil.CreateTestSale(t, f.db, beds, "200", "90", testutil.Date(2024, 3, 5))
	testutil.CreateTestSale(t, f.db, sofas, "300", "150", testutil.Date(2024, 3, 20))
	testutil.CreateTestSale(t, f.db, sofas, "400", "200", testutil.Date(2024, 4, 1))

	tests := []struct {
		name      string
		filters   service.SaleListFilters
		wantDates []string
	}{
		{"all, newest first", service.SaleListFilters{}, []string{"2024-04-01", "2024-03-20", "2024-03-05", "2023-03-10"}},
		{"year", service.SaleListFilters{Period: finance.Period{Year: 2024}}, []string{"2024-04-01", "2024-03-20", "2024-03-05"}},
		{"year and month", service.SaleListFilters{Period: finance.Period{Year: 2024, Month: 3}}, []string{"2024-03-20", "2024-03-05"}},
		{"month in every year", service.SaleListFilters{Period: finance.Period{Month: 3}}, []string{"2024-03-20", "2024-03-05", "2023-03-10"}},
		{"category", service.SaleListFilters{CategoryID: &beds.ID}, []string{"2024-03-05"}},
		{"month and category", service.SaleListFilters{Period: finance.Period{Month: 3}, CategoryID: &sofas.ID}, []string{"2024-03-20", "2023-03-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.sales.List(ctx, 1, 20, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantDates)), page.Total)

			sales, ok := page.Data.([]domain.SaleDTO)
			require.True(t, ok)
			dates := make([]string, len(sales))
			for i, s := range sales {
				dates[i] = s.SaleDate
			}
			assert.Equal(t, tt.wantDates, dates)
		})
	}

	t.Run("month filter pages in memory", func(t *testing.T) {
		page, err := f.sales.List(ctx, 2, 2, service.SaleListFilters{Period: finance.Period{Month: 3}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		sales := page.Data.([]domain.SaleDTO)
		require.Len(t, sales, 1)
		assert.Equal(t, "2023-03-10", sales[0].SaleDate)
	})
}
