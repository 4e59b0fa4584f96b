package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseModel with common fields. IDs are generated on create so every dialect behaves the same.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a new ID when none was set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User is a back-office account. Staff users can be assigned as salespeople and manage master data.
type User struct {
	BaseModel
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	PasswordHash string       `gorm:"type:varchar(255);not null;column:password_hash"`
	IsStaff      bool         `gorm:"not null;default:false;column:is_staff"`
	IsActive     bool         `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
	Profile      *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// DisplayName returns the name, or the email when no name is set
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// UserProfile is provisioned for every user on creation
type UserProfile struct {
	BaseModel
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(10,2);not null;column:hourly_rate"`
}

// HourlyRoleCost prices logged labor for a job role
type HourlyRoleCost struct {
	BaseModel
	Name       string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(10,2);not null;column:hourly_rate"`
}

// TableName keeps the table name readable
func (HourlyRoleCost) TableName() string {
	return "role_costs"
}

// ProductCategory classifies product sales and budgets
type ProductCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// ServiceCategory classifies service activities
type ServiceCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// Sale is a closed product transaction
type Sale struct {
	BaseModel
	Description     string           `gorm:"type:varchar(255);not null"`
	CategoryID      uuid.UUID        `gorm:"type:uuid;not null;index;column:category_id"`
	Category        *ProductCategory `gorm:"foreignKey:CategoryID"`
	SalePrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null;column:sale_price"`
	PurchaseCost    decimal.Decimal  `gorm:"type:decimal(12,2);not null;column:purchase_cost"`
	SaleDate        time.Time        `gorm:"not null;index;column:sale_date"`
	Client          string           `gorm:"type:varchar(150)"`
	SalespersonID   *uuid.UUID       `gorm:"type:uuid;index;column:salesperson_id"`
	Salesperson     *User            `gorm:"foreignKey:SalespersonID"`
	Financed        bool             `gorm:"not null;default:false"`
	Returned        bool             `gorm:"not null;default:false"`
	DelayedDelivery bool             `gorm:"not null;default:false;column:delayed_delivery"`
}

// UnitGrossMargin is sale price minus purchase cost
func (s *Sale) UnitGrossMargin() decimal.Decimal {
	return s.SalePrice.Sub(s.PurchaseCost)
}

// Deal is a negotiation tracked through the pipeline stages
type Deal struct {
	BaseModel
	Title                 string          `gorm:"type:varchar(255);not null"`
	ClientName            string          `gorm:"type:varchar(150);not null;column:client_name"`
	ClientContact         string          `gorm:"type:varchar(150);column:client_contact"`
	EstimatedProductValue decimal.Decimal `gorm:"type:decimal(12,2);not null;column:estimated_product_value"`
	EstimatedProductCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;column:estimated_product_cost"`
	Stage                 DealStage       `gorm:"type:varchar(20);not null;index"`
	SalespersonID         *uuid.UUID      `gorm:"type:uuid;index;column:salesperson_id"`
	Salesperson           *User           `gorm:"foreignKey:SalespersonID"`
	SaleID                *uuid.UUID      `gorm:"type:uuid;uniqueIndex;column:sale_id"`
	Sale                  *Sale           `gorm:"foreignKey:SaleID"`
	Activities            []Activity      `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
	Messages              []ChatMessage   `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
}

// IsClosed reports whether the deal reached a terminal stage
func (d *Deal) IsClosed() bool {
	return d.Stage.IsClosed()
}

// Activity is a unit of service work logged on a deal
type Activity struct {
	BaseModel
	DealID            uuid.UUID        `gorm:"type:uuid;not null;index;column:deal_id"`
	Deal              *Deal            `gorm:"foreignKey:DealID"`
	ServiceCategoryID *uuid.UUID       `gorm:"type:uuid;index;column:service_category_id"`
	ServiceCategory   *ServiceCategory `gorm:"foreignKey:ServiceCategoryID"`
	RoleID            *uuid.UUID       `gorm:"type:uuid;index;column:role_id"`
	Role              *HourlyRoleCost  `gorm:"foreignKey:RoleID"`
	Description       string           `gorm:"type:varchar(255);not null"`
	SalePrice         decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:sale_price"`
	Hours             decimal.Decimal  `gorm:"type:decimal(6,2);not null"`
	ActivityDate      time.Time        `gorm:"not null;index;column:activity_date"`
	Notes             string           `gorm:"type:text"`
}

// ChatMessage is an append-only note on a deal
type ChatMessage struct {
	BaseModel
	DealID   uuid.UUID  `gorm:"type:uuid;not null;index;column:deal_id"`
	AuthorID *uuid.UUID `gorm:"type:uuid;column:author_id"`
	Author   *User      `gorm:"foreignKey:AuthorID"`
	Body     string     `gorm:"type:text;not null"`
}

// MonthlyManualStats holds costs for a month that cannot be derived from transactions
type MonthlyManualStats struct {
	BaseModel
	Year               int             `gorm:"not null;uniqueIndex:idx_monthly_stats_period"`
	Month              int             `gorm:"not null;uniqueIndex:idx_monthly_stats_period"`
	MarketingCost      decimal.Decimal `gorm:"type:decimal(10,2);not null;column:marketing_cost"`
	FixedCosts         decimal.Decimal `gorm:"type:decimal(10,2);not null;column:fixed_costs"`
	RejectedFinancings int             `gorm:"not null;default:0;column:rejected_financings"`
}

// TableName overrides the default pluralization
func (MonthlyManualStats) TableName() string {
	return "monthly_stats"
}

// Budget holds sales and margin targets for one category in one month
type Budget struct {
	BaseModel
	Year                int              `gorm:"not null;uniqueIndex:idx_budget_period_category"`
	Month               int              `gorm:"not null;uniqueIndex:idx_budget_period_category"`
	CategoryID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period_category;column:category_id"`
	Category            *ProductCategory `gorm:"foreignKey:CategoryID"`
	SalesTarget         decimal.Decimal  `gorm:"type:decimal(12,2);not null;column:sales_target"`
	MarginPercentTarget decimal.Decimal  `gorm:"type:decimal(5,2);not null;column:margin_percent_target"`
}

// GlobalSettingsID is the primary key of the only settings row
const GlobalSettingsID = 1

// GlobalSettings is a singleton row with tunable business thresholds
type GlobalSettings struct {
	ID               uint            `gorm:"primaryKey"`
	MinMarginPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;column:min_margin_percent"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName overrides the default pluralization
func (GlobalSettings) TableName() string {
	return "global_settings"
}

// AllModels lists every persisted model in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&HourlyRoleCost{},
		&ProductCategory{},
		&ServiceCategory{},
		&Sale{},
		&Deal{},
		&Activity{},
		&ChatMessage{},
		&MonthlyManualStats{},
		&Budget{},
		&GlobalSettings{},
	}
}
