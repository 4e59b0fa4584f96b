package service_test

import (
	"errors"
	"testing"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealService_Create(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateTestUser(t, f.db, "Marta", true)
	ctx := userContext(seller)

	t.Run("defaults to lead and the acting user", func(t *testing.T) {
		deal, err := f.deals.Create(ctx, &domain.CreateDealRequest{
			Title:                 "Kitchen refit",
			ClientName:            "Rossi",
			EstimatedProductValue: 5000,
			EstimatedProductCost:  3000,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageLead, deal.Stage)
		assert.Equal(t, "1. Lead/Contact", deal.StageLabel)
		require.NotNil(t, deal.SalespersonID)
		assert.Equal(t, seller.ID, *deal.SalespersonID)
		assert.Equal(t, "Marta", deal.SalespersonName)
		assert.Equal(t, 5000.0, deal.Financials.TotalValue)
		assert.Equal(t, 40.0, deal.Financials.MarginPercent)
	})

	t.Run("system requests leave the salesperson empty", func(t *testing.T) {
		deal, err := f.deals.Create(systemContext(), &domain.CreateDealRequest{Title: "Imported", ClientName: "Bianchi"})
		require.NoError(t, err)
		assert.Nil(t, deal.SalespersonID)
	})

	t.Run("unknown salesperson is a validation error", func(t *testing.T) {
		unknown := uuid.New()
		_, err := f.deals.Create(ctx, &domain.CreateDealRequest{Title: "X", ClientName: "Y", SalespersonID: &unknown})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "salespersonId")
	})
}

func TestDealService_Move(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	t.Run("moves between open stages", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Open", domain.DealStageLead, "100", "50")
		require.NoError(t, f.deals.Move(ctx, deal.ID, domain.DealStageDesign))
		require.NoError(t, f.deals.Move(ctx, deal.ID, domain.DealStageAppointment))

		got, err := f.deals.GetByID(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageAppointment, got.Stage)
	})

	t.Run("moving to lost closes the deal", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Lost", domain.DealStageQuoteSent, "100", "50")
		require.NoError(t, f.deals.Move(ctx, deal.ID, domain.DealStageLost))

		err := f.deals.Move(ctx, deal.ID, domain.DealStageLead)
		assert.ErrorIs(t, err, service.ErrDealClosed)
	})

	tests := []struct {
		name    string
		from    domain.DealStage
		to      domain.DealStage
		wantErr error
	}{
		{"won is not reachable by move", domain.DealStageAssembly, domain.DealStageWon, service.ErrInvalidStage},
		{"unknown stage", domain.DealStageLead, domain.DealStage("archived"), service.ErrInvalidStage},
		{"won deal cannot move", domain.DealStageWon, domain.DealStageDelivery, service.ErrDealClosed},
		{"lost deal cannot move", domain.DealStageLost, domain.DealStageLead, service.ErrDealClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := testutil.CreateTestDeal(t, f.db, tt.name, tt.from, "100", "50")

			err := f.deals.Move(ctx, deal.ID, tt.to)
			assert.ErrorIs(t, err, tt.wantErr)

			got, err := f.deals.GetByID(ctx, deal.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, got.Stage)
		})
	}

	t.Run("missing deal", func(t *testing.T) {
		err := f.deals.Move(ctx, uuid.New(), domain.DealStageDesign)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestDealService_CloseWon(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateTestUser(t, f.db, "Luca", true)
	actor := testutil.CreateTestUser(t, f.db, "Anna", true)
	category := testutil.CreateTestCategory(t, f.db, "Sofas")
	ctx := userContext(actor)

	request := func() *domain.CloseDealWonRequest {
		return &domain.CloseDealWonRequest{
			Description:  "Corner sofa",
			CategoryID:   category.ID,
			SalePrice:    2400,
			PurchaseCost: 1500,
			SaleDate:     "2024-03-15",
			Financed:     true,
		}
	}

	t.Run("creates and links the sale", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Sofa", domain.DealStageAssembly, "2000", "1200")
		require.NoError(t, f.db.Model(deal).Update("salesperson_id", seller.ID).Error)

		sale, err := f.deals.CloseWon(ctx, deal.ID, request())
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", sale.SaleDate)
		assert.Equal(t, "Client Sofa", sale.Client)
		assert.Equal(t, "Sofas", sale.CategoryName)
		assert.True(t, sale.Financed)
		require.NotNil(t, sale.SalespersonID)
		assert.Equal(t, seller.ID, *sale.SalespersonID)

		detail, err := f.deals.GetDetail(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageWon, detail.Stage)
		require.NotNil(t, detail.SaleID)
		assert.Equal(t, sale.ID, *detail.SaleID)
		assert.Equal(t, 2400.0, detail.EstimatedProductValue)
		assert.Equal(t, 1500.0, detail.EstimatedProductCost)
		require.NotNil(t, detail.Sale)
		assert.Equal(t, 900.0, detail.Sale.UnitGrossMargin)
	})

	t.Run("falls back to the acting user and the given client", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Bed", domain.DealStageLead, "800", "500")
		req := request()
		req.Client = "Verdi family"

		sale, err := f.deals.CloseWon(ctx, deal.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Verdi family", sale.Client)
		require.NotNil(t, sale.SalespersonID)
		assert.Equal(t, actor.ID, *sale.SalespersonID)
	})

	t.Run("closed deal is rejected without a sale", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Gone", domain.DealStageLost, "800", "500")
		var before int64
		require.NoError(t, f.db.Model(&domain.Sale{}).Count(&before).Error)

		_, err := f.deals.CloseWon(ctx, deal.ID, request())
		assert.ErrorIs(t, err, service.ErrDealClosed)

		var after int64
		require.NoError(t, f.db.Model(&domain.Sale{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})

	t.Run("invalid input changes nothing", func(t *testing.T) {
		deal := testutil.CreateTestDeal(t, f.db, "Table", domain.DealStageDelivery, "600", "300")

		req := request()
		req.CategoryID = uuid.New()
		_, err := f.deals.CloseWon(ctx, deal.ID, req)
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "categoryId")

		req = request()
		req.SaleDate = "15/03/2024"
		_, err = f.deals.CloseWon(ctx, deal.ID, req)
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		got, err := f.deals.GetByID(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DealStageDelivery, got.Stage)
		assert.Nil(t, got.SaleID)
	})

	t.Run("missing deal", func(t *testing.T) {
		_, err := f.deals.CloseWon(ctx, uuid.New(), request())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestDealService_CloseForm(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	deal := testutil.CreateTestDeal(t, f.db, "Wardrobe", domain.DealStageQuoteSent, "1800.5", "900")
	form, err := f.deals.CloseForm(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wardrobe", form.Description)
	assert.Equal(t, "Client Wardrobe", form.Client)
	assert.Equal(t, 1800.5, form.SalePrice)
	assert.Equal(t, 900.0, form.PurchaseCost)
	assert.Len(t, form.SaleDate, len("2006-01-02"))

	closed := testutil.CreateTestDeal(t, f.db, "Closed", domain.DealStageWon, "1", "1")
	_, err = f.deals.CloseForm(ctx, closed.ID)
	assert.ErrorIs(t, err, service.ErrDealClosed)
}

func TestDealService_Board(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()
	role := testutil.CreateTestRole(t, f.db, "Fitter", "30")

	a := testutil.CreateTestDeal(t, f.db, "A", domain.DealStageLead, "1000", "600")
	testutil.CreateTestActivity(t, f.db, a, role, "2", "150")
	testutil.CreateTestDeal(t, f.db, "B", domain.DealStageLead, "500", "300")
	testutil.CreateTestDeal(t, f.db, "C", domain.DealStageLost, "700", "300")

	columns, err := f.deals.Board(ctx, nil)
	require.NoError(t, err)
	require.Len(t, columns, len(domain.PipelineStages))

	for i, col := range columns {
		assert.Equal(t, domain.PipelineStages[i], col.Stage)
		assert.NotNil(t, col.Deals)
	}

	lead := columns[0]
	assert.Equal(t, 2, lead.Count)
	assert.Equal(t, 1650.0, lead.TotalValue)

	lost := columns[len(columns)-1]
	assert.Equal(t, "8. Closed Lost", lost.Label)
	assert.Equal(t, 1, lost.Count)
	assert.Equal(t, 0, columns[1].Count)
}

func TestDealService_DetailAndDelete(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateTestUser(t, f.db, "Paola", true)
	ctx := userContext(author)
	role := testutil.CreateTestRole(t, f.db, "Designer", "40")

	deal := testutil.CreateTestDeal(t, f.db, "Living room", domain.DealStageDesign, "3000", "2000")
	first, err := f.activities.Create(ctx, deal.ID, &domain.ActivityRequest{
		RoleID: &role.ID, Description: "Survey", Hours: 1, SalePrice: 50, ActivityDate: "2024-01-10",
	})
	require.NoError(t, err)
	second, err := f.activities.Create(ctx, deal.ID, &domain.ActivityRequest{
		RoleID: &role.ID, Description: "Render", Hours: 3, SalePrice: 200, ActivityDate: "2024-01-20",
	})
	require.NoError(t, err)
	_, err = f.chat.Post(ctx, deal.ID, &domain.CreateChatMessageRequest{Body: "first"})
	require.NoError(t, err)
	_, err = f.chat.Post(ctx, deal.ID, &domain.CreateChatMessageRequest{Body: "second"})
	require.NoError(t, err)

	detail, err := f.deals.GetDetail(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, detail.Activities, 2)
	assert.Equal(t, second.ID, detail.Activities[0].ID)
	assert.Equal(t, first.ID, detail.Activities[1].ID)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "first", detail.Messages[0].Body)
	assert.Equal(t, "Paola", detail.Messages[0].AuthorName)
	assert.Equal(t, 250.0, detail.Financials.ServiceRevenue)
	assert.Equal(t, 160.0, detail.Financials.LaborCost)
	assert.Equal(t, 3250.0, detail.Financials.TotalValue)

	require.NoError(t, f.deals.Delete(ctx, deal.ID))
	_, err = f.deals.GetDetail(ctx, deal.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var activities, messages int64
	require.NoError(t, f.db.Model(&domain.Activity{}).Count(&activities).Error)
	require.NoError(t, f.db.Model(&domain.ChatMessage{}).Count(&messages).Error)
	assert.Zero(t, activities)
	assert.Zero(t, messages)

	assert.ErrorIs(t, f.deals.Delete(ctx, deal.ID), service.ErrNotFound)
}

func TestDealService_ListAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	for _, title := range []string{"Chair", "Desk", "Lamp"} {
		testutil.CreateTestDeal(t, f.db, title, domain.DealStageLead, "10", "5")
	}
	desk := testutil.CreateTestDeal(t, f.db, "Standing desk", domain.DealStageDesign, "10", "5")

	page, err := f.deals.List(ctx, 1, 2, nil, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 2)

	search := "desk"
	page, err = f.deals.List(ctx, 1, 20, &repository.DealFilters{SearchQuery: &search}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	updated, err := f.deals.Update(ctx, desk.ID, &domain.UpdateDealRequest{
		Title:                 "Standing desk XL",
		ClientName:            "Neri",
		EstimatedProductValue: 1200,
		EstimatedProductCost:  700,
	})
	require.NoError(t, err)
	assert.Equal(t, "Standing desk XL", updated.Title)
	assert.Equal(t, domain.DealStageDesign, updated.Stage)
	assert.Equal(t, 500.0, updated.Financials.MarginAmount)

	_, err = f.deals.Update(ctx, uuid.New(), &domain.UpdateDealRequest{Title: "x", ClientName: "y"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	t.Run("editing a won deal keeps the stage and sale", func(t *testing.T) {
		category := testutil.CreateTestCategory(t, f.db, "Offices")
		sale := testutil.CreateTestSale(t, f.db, category, "900", "500", testutil.Date(2024, 3, 1))
		won := testutil.CreateTestDeal(t, f.db, "Office", domain.DealStageAssembly, "900", "500")
		testutil.LinkSale(t, f.db, won, sale)

		updated, err := f.deals.Update(ctx, won.ID, &domain.UpdateDealRequest{
			Title:                 "Office Neri",
			ClientName:            "Neri",
			EstimatedProductValue: 900,
			EstimatedProductCost:  500,
		})
		require.NoError(t, err)
		assert.Equal(t, "Office Neri", updated.Title)
		assert.Equal(t, domain.DealStageWon, updated.Stage)
		require.NotNil(t, updated.SaleID)
		assert.Equal(t, sale.ID, *updated.SaleID)
	})
}
