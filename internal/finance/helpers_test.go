package finance

import (
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func role(name, rate string) *domain.HourlyRoleCost {
	r := &domain.HourlyRoleCost{Name: name, HourlyRate: dec(rate)}
	r.ID = uuid.New()
	return r
}

func activity(r *domain.HourlyRoleCost, hours, price string) domain.Activity {
	a := domain.Activity{Role: r, Hours: dec(hours), SalePrice: dec(price)}
	a.ID = uuid.New()
	if r != nil {
		id := r.ID
		a.RoleID = &id
	}
	return a
}

func deal(value, cost string, activities ...domain.Activity) domain.Deal {
	d := domain.Deal{
		EstimatedProductValue: dec(value),
		EstimatedProductCost:  dec(cost),
		Stage:                 domain.DealStageLead,
		Activities:            activities,
	}
	d.ID = uuid.New()
	return d
}

func category(name string) *domain.ProductCategory {
	c := &domain.ProductCategory{Name: name}
	c.ID = uuid.New()
	return c
}

func sale(c *domain.ProductCategory, price, cost string, date time.Time) domain.Sale {
	s := domain.Sale{Category: c, CategoryID: c.ID, SalePrice: dec(price), PurchaseCost: dec(cost), SaleDate: date}
	s.ID = uuid.New()
	return s
}

// wonDeal links a won deal to its sale
func wonDeal(s domain.Sale, created time.Time, activities ...domain.Activity) domain.Deal {
	d := deal("0", "0", activities...)
	d.Stage = domain.DealStageWon
	d.CreatedAt = created
	d.Sale = &s
	d.SaleID = &s.ID
	return d
}
