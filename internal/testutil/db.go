// Package testutil provides an in-memory database and record factories for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/database"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetupTestDB opens a private in-memory SQLite database with every model migrated.
// A single connection keeps all queries on the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Dec parses a decimal literal and fails the test on bad input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date returns midnight UTC of the given day
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates an active user. The password hash is a placeholder.
func CreateTestUser(t *testing.T, db *gorm.DB, name string, staff bool) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Name:         name,
		PasswordHash: "x",
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(user).Error)
	return user
}

func CreateTestRole(t *testing.T, db *gorm.DB, name, rate string) *domain.HourlyRoleCost {
	t.Helper()
	role := &domain.HourlyRoleCost{Name: name, HourlyRate: Dec(rate)}
	require.NoError(t, db.Create(role).Error)
	return role
}

func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *domain.ProductCategory {
	t.Helper()
	c := &domain.ProductCategory{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateTestServiceCategory(t *testing.T, db *gorm.DB, name string) *domain.ServiceCategory {
	t.Helper()
	c := &domain.ServiceCategory{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateTestDeal creates a deal in the given stage with the estimated value and cost
func CreateTestDeal(t *testing.T, db *gorm.DB, title string, stage domain.DealStage, value, cost string) *domain.Deal {
	t.Helper()
	deal := &domain.Deal{
		Title:                 title,
		ClientName:            "Client " + title,
		EstimatedProductValue: Dec(value),
		EstimatedProductCost:  Dec(cost),
		Stage:                 stage,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(deal).Error)
	return deal
}

// CreateTestSale creates a sale in the category on the given date
func CreateTestSale(t *testing.T, db *gorm.DB, category *domain.ProductCategory, price, cost string, date time.Time) *domain.Sale {
	t.Helper()
	sale := &domain.Sale{
		Description:  "Sale " + category.Name,
		CategoryID:   category.ID,
		SalePrice:    Dec(price),
		PurchaseCost: Dec(cost),
		SaleDate:     date,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(sale).Error)
	return sale
}

// CreateTestActivity logs hours for the role on the deal. role may be nil.
func CreateTestActivity(t *testing.T, db *gorm.DB, deal *domain.Deal, role *domain.HourlyRoleCost, hours, price string) *domain.Activity {
	t.Helper()
	a := &domain.Activity{
		DealID:       deal.ID,
		Description:  "Work",
		Hours:        Dec(hours),
		SalePrice:    Dec(price),
		ActivityDate: time.Now().UTC(),
	}
	if role != nil {
		a.RoleID = &role.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(a).Error)
	return a
}

// LinkSale marks the deal as won by the sale
func LinkSale(t *testing.T, db *gorm.DB, deal *domain.Deal, sale *domain.Sale) {
	t.Helper()
	deal.Stage = domain.DealStageWon
	deal.SaleID = &sale.ID
	require.NoError(t, db.Model(deal).Updates(map[string]interface{}{"stage": deal.Stage, "sale_id": sale.ID}).Error)
}
