package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/storage"
	"github.com/arredo/backoffice-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestReportHandler_DealsExcel(t *testing.T) {
	f := newHandlerFixture(t)
	user := testutil.CreateTestUser(t, f.db, "Sara", false)
	testutil.CreateTestDeal(t, f.db, "Kitchen", domain.DealStageDesign, "8000", "5000")

	rr := httptest.NewRecorder()
	f.report.DealsExcel(rr, newRequest(userContext(user), http.MethodGet, "/reports/deals.xlsx", nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=\"report_deals_")
	assert.Equal(t, strconv.Itoa(rr.Body.Len()), rr.Header().Get("Content-Length"))

	book, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	defer book.Close()
	assert.NotEmpty(t, book.GetSheetList())
}

func TestReportHandler_Archive(t *testing.T) {
	f := newHandlerFixture(t)
	staff := testutil.CreateTestUser(t, f.db, "Admin", true)
	ctx := userContext(staff)
	testutil.CreateTestDeal(t, f.db, "Kitchen", domain.DealStageDesign, "8000", "5000")

	rr := httptest.NewRecorder()
	f.report.ArchiveNow(rr, newRequest(ctx, http.MethodPost, "/reports/archive", nil, nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	name := created["name"]
	assert.Equal(t, "report_deals_"+time.Now().Format("2006-01-02")+".xlsx", name)
	assert.Equal(t, "/api/v1/reports/archive/"+name, created["url"])

	stored, err := f.store.Get(ctx, storage.ReportsPrefix+name)
	require.NoError(t, err)
	storedBytes, err := io.ReadAll(stored)
	require.NoError(t, err)
	require.NoError(t, stored.Close())

	t.Run("download the archived report", func(t *testing.T) {
		rr := httptest.NewRecorder()
		f.report.DownloadArchived(rr, newRequest(ctx, http.MethodGet, "/reports/archive/"+name, nil,
			map[string]string{"name": name}))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
		assert.Equal(t, storedBytes, rr.Body.Bytes())
	})

	t.Run("missing report", func(t *testing.T) {
		rr := httptest.NewRecorder()
		f.report.DownloadArchived(rr, newRequest(ctx, http.MethodGet, "/reports/archive/report_deals_1999-01-01.xlsx", nil,
			map[string]string{"name": "report_deals_1999-01-01.xlsx"}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("rejects names outside the archive", func(t *testing.T) {
		for _, bad := range []string{"../secret.xlsx", "report.csv", "..", `a\b.xlsx`} {
			rr := httptest.NewRecorder()
			f.report.DownloadArchived(rr, newRequest(ctx, http.MethodGet, "/reports/archive/x", nil,
				map[string]string{"name": bad}))
			assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
		}
	})
}

func TestReportHandler_Labor(t *testing.T) {
	f := newHandlerFixture(t)
	user := testutil.CreateTestUser(t, f.db, "Sara", false)
	role := testutil.CreateTestRole(t, f.db, "Fitter", "20")
	lost := testutil.CreateTestDeal(t, f.db, "Sofa", domain.DealStageLost, "900", "500")
	testutil.CreateTestActivity(t, f.db, lost, role, "3", "0")

	rr := httptest.NewRecorder()
	f.report.Labor(rr, newRequest(userContext(user), http.MethodGet, "/reports/labor", nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var report domain.LaborReportDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 60.0, report.LostDealsCost)
	assert.Equal(t, 0.0, report.WonDealsCost)
}

func TestPeriodQueryValidation(t *testing.T) {
	f := newHandlerFixture(t)
	user := testutil.CreateTestUser(t, f.db, "Sara", false)
	ctx := userContext(user)

	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"month out of range", "?month=13", "month"},
		{"month not a number", "?month=march", "month"},
		{"year not a number", "?year=twenty", "year"},
		{"year zero", "?year=0", "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.dashboard.Get(rr, newRequest(ctx, http.MethodGet, "/dashboard"+tt.query, nil, nil))
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeProblem(t, rr).Errors, tt.wantField)

			rr = httptest.NewRecorder()
			f.report.Salespeople(rr, newRequest(ctx, http.MethodGet, "/reports/salespeople"+tt.query, nil, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			rr = httptest.NewRecorder()
			f.sale.List(rr, newRequest(ctx, http.MethodGet, "/sales"+tt.query, nil, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestDashboardHandler_Get(t *testing.T) {
	f := newHandlerFixture(t)
	user := testutil.CreateTestUser(t, f.db, "Sara", false)
	category := testutil.CreateTestCategory(t, f.db, "Kitchens")
	testutil.CreateTestSale(t, f.db, category, "1000", "600", testutil.Date(2024, time.March, 10))
	testutil.CreateTestSale(t, f.db, category, "500", "300", testutil.Date(2024, time.April, 2))

	rr := httptest.NewRecorder()
	f.dashboard.Get(rr, newRequest(userContext(user), http.MethodGet, "/dashboard?year=2024&month=3", nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard domain.DashboardDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.True(t, dashboard.Period.Filtered)
	require.NotNil(t, dashboard.Period.Month)
	assert.Equal(t, 3, *dashboard.Period.Month)
	assert.Equal(t, 1000.0, dashboard.ProductRevenue)
	assert.Equal(t, 600.0, dashboard.ProductCost)
}
