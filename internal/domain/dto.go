package domain

import (
	"github.com/google/uuid"
)

// Request payloads use float64 amounts so validator tags apply; services convert them to decimals.
// Response payloads format timestamps as ISO 8601 and dates as YYYY-MM-DD.

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresAt   string  `json:"expiresAt"`
	User        UserDTO `json:"user"`
}

// Users

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsStaff     bool      `json:"isStaff"`
	IsActive    bool      `json:"isActive"`
	HourlyRate  *float64  `json:"hourlyRate,omitempty"`
	LastLoginAt string    `json:"lastLoginAt,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	IsStaff  bool   `json:"isStaff"`
}

type UpdateUserProfileRequest struct {
	HourlyRate float64 `json:"hourlyRate" validate:"gte=0"`
}

// Role costs and categories

type RoleCostDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	HourlyRate float64   `json:"hourlyRate"`
}

type RoleCostRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	HourlyRate float64 `json:"hourlyRate" validate:"gte=0"`
}

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Sales

type SaleDTO struct {
	ID              uuid.UUID  `json:"id"`
	Description     string     `json:"description"`
	CategoryID      uuid.UUID  `json:"categoryId"`
	CategoryName    string     `json:"categoryName,omitempty"`
	SalePrice       float64    `json:"salePrice"`
	PurchaseCost    float64    `json:"purchaseCost"`
	UnitGrossMargin float64    `json:"unitGrossMargin"`
	SaleDate        string     `json:"saleDate"`
	Client          string     `json:"client,omitempty"`
	SalespersonID   *uuid.UUID `json:"salespersonId,omitempty"`
	SalespersonName string     `json:"salespersonName,omitempty"`
	Financed        bool       `json:"financed"`
	Returned        bool       `json:"returned"`
	DelayedDelivery bool       `json:"delayedDelivery"`
	CreatedAt       string     `json:"createdAt"`
}

type SaleRequest struct {
	Description     string     `json:"description" validate:"required,max=255"`
	CategoryID      uuid.UUID  `json:"categoryId" validate:"required"`
	SalePrice       float64    `json:"salePrice" validate:"gte=0"`
	PurchaseCost    float64    `json:"purchaseCost" validate:"gte=0"`
	SaleDate        string     `json:"saleDate" validate:"required,datetime=2006-01-02"`
	Client          string     `json:"client,omitempty" validate:"max=150"`
	SalespersonID   *uuid.UUID `json:"salespersonId,omitempty"`
	Financed        bool       `json:"financed"`
	Returned        bool       `json:"returned"`
	DelayedDelivery bool       `json:"delayedDelivery"`
}

// Deals

type DealFinancialsDTO struct {
	ServiceRevenue float64 `json:"serviceRevenue"`
	LaborCost      float64 `json:"laborCost"`
	LaborHours     float64 `json:"laborHours"`
	TotalValue     float64 `json:"totalValue"`
	TotalCost      float64 `json:"totalCost"`
	MarginAmount   float64 `json:"marginAmount"`
	MarginPercent  float64 `json:"marginPercent"`
}

type DealDTO struct {
	ID                    uuid.UUID         `json:"id"`
	Title                 string            `json:"title"`
	ClientName            string            `json:"clientName"`
	ClientContact         string            `json:"clientContact,omitempty"`
	Stage                 DealStage         `json:"stage"`
	StageLabel            string            `json:"stageLabel"`
	EstimatedProductValue float64           `json:"estimatedProductValue"`
	EstimatedProductCost  float64           `json:"estimatedProductCost"`
	SalespersonID         *uuid.UUID        `json:"salespersonId,omitempty"`
	SalespersonName       string            `json:"salespersonName,omitempty"`
	SaleID                *uuid.UUID        `json:"saleId,omitempty"`
	Financials            DealFinancialsDTO `json:"financials"`
	CreatedAt             string            `json:"createdAt"`
	UpdatedAt             string            `json:"updatedAt"`
}

// DealDetailDTO has the deal with its activities (newest first), chat (oldest first) and linked sale
type DealDetailDTO struct {
	DealDTO
	Activities []ActivityDTO    `json:"activities"`
	Messages   []ChatMessageDTO `json:"messages"`
	Sale       *SaleDTO         `json:"sale,omitempty"`
}

type BoardColumnDTO struct {
	Stage      DealStage `json:"stage"`
	Label      string    `json:"label"`
	Count      int       `json:"count"`
	TotalValue float64   `json:"totalValue"`
	Deals      []DealDTO `json:"deals"`
}

type CreateDealRequest struct {
	Title                 string     `json:"title" validate:"required,max=255"`
	ClientName            string     `json:"clientName" validate:"required,max=150"`
	ClientContact         string     `json:"clientContact,omitempty" validate:"max=150"`
	EstimatedProductValue float64    `json:"estimatedProductValue" validate:"gte=0"`
	EstimatedProductCost  float64    `json:"estimatedProductCost" validate:"gte=0"`
	SalespersonID         *uuid.UUID `json:"salespersonId,omitempty"`
}

type UpdateDealRequest struct {
	Title                 string     `json:"title" validate:"required,max=255"`
	ClientName            string     `json:"clientName" validate:"required,max=150"`
	ClientContact         string     `json:"clientContact,omitempty" validate:"max=150"`
	EstimatedProductValue float64    `json:"estimatedProductValue" validate:"gte=0"`
	EstimatedProductCost  float64    `json:"estimatedProductCost" validate:"gte=0"`
	SalespersonID         *uuid.UUID `json:"salespersonId,omitempty"`
}

type MoveDealRequest struct {
	Stage DealStage `json:"stage" validate:"required"`
}

// CloseDealWonRequest carries the particulars of the sale a won deal produces
type CloseDealWonRequest struct {
	Description     string    `json:"description" validate:"required,max=255"`
	CategoryID      uuid.UUID `json:"categoryId" validate:"required"`
	SalePrice       float64   `json:"salePrice" validate:"gte=0"`
	PurchaseCost    float64   `json:"purchaseCost" validate:"gte=0"`
	SaleDate        string    `json:"saleDate" validate:"required,datetime=2006-01-02"`
	Client          string    `json:"client,omitempty" validate:"max=150"`
	Financed        bool      `json:"financed"`
	Returned        bool      `json:"returned"`
	DelayedDelivery bool      `json:"delayedDelivery"`
}

// CloseDealFormDTO pre-fills the close-as-won form from the deal
type CloseDealFormDTO struct {
	DealID       uuid.UUID `json:"dealId"`
	Description  string    `json:"description"`
	Client       string    `json:"client"`
	SalePrice    float64   `json:"salePrice"`
	PurchaseCost float64   `json:"purchaseCost"`
	SaleDate     string    `json:"saleDate"`
}

// Activities

type ActivityDTO struct {
	ID                  uuid.UUID  `json:"id"`
	DealID              uuid.UUID  `json:"dealId"`
	ServiceCategoryID   *uuid.UUID `json:"serviceCategoryId,omitempty"`
	ServiceCategoryName string     `json:"serviceCategoryName,omitempty"`
	RoleID              *uuid.UUID `json:"roleId,omitempty"`
	RoleName            string     `json:"roleName,omitempty"`
	Description         string     `json:"description"`
	SalePrice           float64    `json:"salePrice"`
	Hours               float64    `json:"hours"`
	Cost                float64    `json:"cost"`
	ActivityDate        string     `json:"activityDate"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           string     `json:"createdAt"`
}

type ActivityRequest struct {
	ServiceCategoryID *uuid.UUID `json:"serviceCategoryId,omitempty"`
	RoleID            *uuid.UUID `json:"roleId,omitempty"`
	Description       string     `json:"description" validate:"required,max=255"`
	SalePrice         float64    `json:"salePrice" validate:"gte=0"`
	Hours             float64    `json:"hours" validate:"gte=0,lte=9999"`
	ActivityDate      string     `json:"activityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             string     `json:"notes,omitempty" validate:"max=5000"`
}

// CostAdvisoryDTO is the inline cost/price check shown while logging an activity
type CostAdvisoryDTO struct {
	Cost             float64 `json:"cost"`
	MinimumPrice     float64 `json:"minimumPrice"`
	ThresholdPercent float64 `json:"thresholdPercent"`
	ShowAdvisory     bool    `json:"showAdvisory"`
	Message          string  `json:"message,omitempty"`
}

// Chat

type ChatMessageDTO struct {
	ID         uuid.UUID  `json:"id"`
	DealID     uuid.UUID  `json:"dealId"`
	AuthorID   *uuid.UUID `json:"authorId,omitempty"`
	AuthorName string     `json:"authorName,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  string     `json:"createdAt"`
}

type CreateChatMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// Monthly stats and budgets

type MonthlyStatsDTO struct {
	ID                 uuid.UUID `json:"id"`
	Year               int       `json:"year"`
	Month              int       `json:"month"`
	MarketingCost      float64   `json:"marketingCost"`
	FixedCosts         float64   `json:"fixedCosts"`
	RejectedFinancings int       `json:"rejectedFinancings"`
}

type MonthlyStatsRequest struct {
	MarketingCost      float64 `json:"marketingCost" validate:"gte=0"`
	FixedCosts         float64 `json:"fixedCosts" validate:"gte=0"`
	RejectedFinancings int     `json:"rejectedFinancings" validate:"gte=0"`
}

type BudgetDTO struct {
	ID                  uuid.UUID `json:"id"`
	Year                int       `json:"year"`
	Month               int       `json:"month"`
	CategoryID          uuid.UUID `json:"categoryId"`
	CategoryName        string    `json:"categoryName,omitempty"`
	SalesTarget         float64   `json:"salesTarget"`
	MarginPercentTarget float64   `json:"marginPercentTarget"`
}

type BudgetRequest struct {
	Year                int       `json:"year" validate:"required,gte=2000,lte=2100"`
	Month               int       `json:"month" validate:"required,gte=1,lte=12"`
	CategoryID          uuid.UUID `json:"categoryId" validate:"required"`
	SalesTarget         float64   `json:"salesTarget" validate:"gte=0"`
	MarginPercentTarget *float64  `json:"marginPercentTarget,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Settings

type SettingsDTO struct {
	MinMarginPercent float64 `json:"minMarginPercent"`
	UpdatedAt        string  `json:"updatedAt,omitempty"`
}

type UpdateSettingsRequest struct {
	MinMarginPercent float64 `json:"minMarginPercent" validate:"gte=0,lte=1000"`
}

// Dashboard

type DashboardDTO struct {
	Period             PeriodDTO            `json:"period"`
	ProductRevenue     float64              `json:"productRevenue"`
	ProductCost        float64              `json:"productCost"`
	ServiceRevenue     float64              `json:"serviceRevenue"`
	TotalRevenue       float64              `json:"totalRevenue"`
	GrossMargin        float64              `json:"grossMargin"`
	GrossMarginPercent float64              `json:"grossMarginPercent"`
	AverageTicket      float64              `json:"averageTicket"`
	SaleCount          int                  `json:"saleCount"`
	FinancedCount      int                  `json:"financedCount"`
	FinancedPercent    float64              `json:"financedPercent"`
	ReturnedCount      int                  `json:"returnedCount"`
	ServiceShare       float64              `json:"serviceSharePercent"`
	LaborCost          float64              `json:"laborCost"`
	FixedCosts         float64              `json:"fixedCosts"`
	MarketingCost      float64              `json:"marketingCost"`
	OperatingCosts     float64              `json:"operatingCosts"`
	OperatingProfit    float64              `json:"operatingProfit"`
	DealsCreated       int                  `json:"dealsCreated"`
	DealsLost          int                  `json:"dealsLost"`
	LossRatePercent    float64              `json:"lossRatePercent"`
	CostPerLead        float64              `json:"costPerLead"`
	AvgFulfillmentDays int                  `json:"averageFulfillmentDays"`
	AvgAssemblyCost    float64              `json:"averageAssemblyCost"`
	RejectedFinancings int                  `json:"rejectedFinancings"`
	Pipeline           PipelineKPIDTO       `json:"pipeline"`
	Categories         []CategorySummaryDTO `json:"categories"`
	Alerts             []AlertDTO           `json:"alerts"`
	Trend              []TrendPointDTO      `json:"trend,omitempty"`
	AvailableYears     []int                `json:"availableYears"`
}

type PeriodDTO struct {
	Year     *int   `json:"year,omitempty"`
	Month    *int   `json:"month,omitempty"`
	Title    string `json:"title"`
	Filtered bool   `json:"filtered"`
}

type PipelineKPIDTO struct {
	Count     int     `json:"count"`
	Value     float64 `json:"value"`
	LaborCost float64 `json:"laborCost"`
}

type CategorySummaryDTO struct {
	CategoryID             uuid.UUID `json:"categoryId"`
	Name                   string    `json:"name"`
	Revenue                float64   `json:"revenue"`
	Cost                   float64   `json:"cost"`
	Margin                 float64   `json:"margin"`
	MarginPercent          float64   `json:"marginPercent"`
	BudgetSales            *float64  `json:"budgetSales,omitempty"`
	BudgetMarginPercent    *float64  `json:"budgetMarginPercent,omitempty"`
	SalesDeviation         *float64  `json:"salesDeviation,omitempty"`
	MarginPercentDeviation *float64  `json:"marginPercentDeviation,omitempty"`
}

type AlertDTO struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type TrendPointDTO struct {
	Month           string  `json:"month"`
	Revenue         float64 `json:"revenue"`
	GrossMargin     float64 `json:"grossMargin"`
	OperatingProfit float64 `json:"operatingProfit"`
}

// Reports

type RoleLaborDTO struct {
	RoleID   uuid.UUID `json:"roleId"`
	RoleName string    `json:"roleName"`
	Hours    float64   `json:"hours"`
	Cost     float64   `json:"cost"`
}

type DealLaborDTO struct {
	DealID          uuid.UUID `json:"dealId"`
	Title           string    `json:"title"`
	Stage           DealStage `json:"stage"`
	SalespersonName string    `json:"salespersonName,omitempty"`
	Hours           float64   `json:"hours"`
	Cost            float64   `json:"cost"`
}

type LaborReportDTO struct {
	ByRole        []RoleLaborDTO `json:"byRole"`
	ActiveDeals   []DealLaborDTO `json:"activeDeals"`
	LostDealsCost float64        `json:"lostDealsCost"`
	WonDealsCost  float64        `json:"wonDealsCost"`
}

type SalespersonReportDTO struct {
	Period PeriodDTO             `json:"period"`
	Rows   []SalespersonStatsDTO `json:"rows"`
}

type SalespersonStatsDTO struct {
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Revenue       float64   `json:"revenue"`
	Cost          float64   `json:"cost"`
	Margin        float64   `json:"margin"`
	MarginPercent float64   `json:"marginPercent"`
	AverageTicket float64   `json:"averageTicket"`
	SaleCount     int       `json:"saleCount"`
}
