package service_test

import (
	"testing"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Roles(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	role, err := f.catalog.CreateRole(ctx, &domain.RoleCostRequest{Name: " Fitter ", HourlyRate: 28})
	require.NoError(t, err)
	assert.Equal(t, "Fitter", role.Name)

	_, err = f.catalog.CreateRole(ctx, &domain.RoleCostRequest{Name: "Fitter", HourlyRate: 30})
	assert.ErrorIs(t, err, service.ErrConflict)

	updated, err := f.catalog.UpdateRole(ctx, role.ID, &domain.RoleCostRequest{Name: "Senior fitter", HourlyRate: 35})
	require.NoError(t, err)
	assert.Equal(t, 35.0, updated.HourlyRate)

	deal := testutil.CreateTestDeal(t, f.db, "Deal", domain.DealStageLead, "100", "50")
	activity, err := f.activities.Create(ctx, deal.ID, &domain.ActivityRequest{RoleID: &role.ID, Description: "Work", Hours: 2})
	require.NoError(t, err)
	assert.Equal(t, 70.0, activity.Cost)

	require.NoError(t, f.catalog.DeleteRole(ctx, role.ID))
	orphan, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.RoleID)
	assert.Zero(t, orphan.Cost)

	assert.ErrorIs(t, f.catalog.DeleteRole(ctx, role.ID), service.ErrNotFound)

	_, err = f.catalog.GetRole(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_ProductCategories(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	chairs, err := f.catalog.CreateProductCategory(ctx, &domain.CategoryRequest{Name: "Chairs"})
	require.NoError(t, err)
	tables, err := f.catalog.CreateProductCategory(ctx, &domain.CategoryRequest{Name: "Tables"})
	require.NoError(t, err)

	_, err = f.catalog.CreateProductCategory(ctx, &domain.CategoryRequest{Name: "Chairs"})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = f.sales.Create(ctx, &domain.SaleRequest{Description: "Chair", CategoryID: chairs.ID, SalePrice: 80, SaleDate: "2024-01-02"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.catalog.DeleteProductCategory(ctx, chairs.ID), service.ErrCategoryInUse)
	require.NoError(t, f.catalog.DeleteProductCategory(ctx, tables.ID))

	list, err := f.catalog.ListProductCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chairs", list[0].Name)
}

func TestCatalogService_ServiceCategories(t *testing.T) {
	f := newFixture(t)
	ctx := systemContext()

	delivery, err := f.catalog.CreateServiceCategory(ctx, &domain.CategoryRequest{Name: "Delivery"})
	require.NoError(t, err)

	renamed, err := f.catalog.UpdateServiceCategory(ctx, delivery.ID, &domain.CategoryRequest{Name: "Delivery & setup"})
	require.NoError(t, err)
	assert.Equal(t, "Delivery & setup", renamed.Name)

	deal := testutil.CreateTestDeal(t, f.db, "Deal", domain.DealStageLead, "100", "50")
	activity, err := f.activities.Create(ctx, deal.ID, &domain.ActivityRequest{ServiceCategoryID: &delivery.ID, Description: "Drop off"})
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteServiceCategory(ctx, delivery.ID))
	got, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ServiceCategoryID)
}
