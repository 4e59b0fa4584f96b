package mapper

import (
	"fmt"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/shopspring/decimal"
)

const (
	timeLayout = "2006-01-02T15:04:05Z"
	dateLayout = "2006-01-02"
)

// Money rounds to cents and converts to float64 for JSON
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.DisplayName(),
		IsStaff:   user.IsStaff,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(timeLayout),
	}
	if user.Profile != nil {
		rate := Money(user.Profile.HourlyRate)
		dto.HourlyRate = &rate
	}
	if user.LastLoginAt != nil {
		dto.LastLoginAt = user.LastLoginAt.Format(timeLayout)
	}
	return dto
}

func ToRoleCostDTO(role *domain.HourlyRoleCost) domain.RoleCostDTO {
	return domain.RoleCostDTO{
		ID:         role.ID,
		Name:       role.Name,
		HourlyRate: Money(role.HourlyRate),
	}
}

func ToProductCategoryDTO(c *domain.ProductCategory) domain.CategoryDTO {
	return domain.CategoryDTO{ID: c.ID, Name: c.Name}
}

func ToServiceCategoryDTO(c *domain.ServiceCategory) domain.CategoryDTO {
	return domain.CategoryDTO{ID: c.ID, Name: c.Name}
}

// ToSaleDTO converts Sale to SaleDTO. Category and Salesperson are optional.
func ToSaleDTO(sale *domain.Sale) domain.SaleDTO {
	dto := domain.SaleDTO{
		ID:              sale.ID,
		Description:     sale.Description,
		CategoryID:      sale.CategoryID,
		SalePrice:       Money(sale.SalePrice),
		PurchaseCost:    Money(sale.PurchaseCost),
		UnitGrossMargin: Money(sale.UnitGrossMargin()),
		SaleDate:        sale.SaleDate.Format(dateLayout),
		Client:          sale.Client,
		SalespersonID:   sale.SalespersonID,
		Financed:        sale.Financed,
		Returned:        sale.Returned,
		DelayedDelivery: sale.DelayedDelivery,
		CreatedAt:       sale.CreatedAt.Format(timeLayout),
	}
	if sale.Category != nil {
		dto.CategoryName = sale.Category.Name
	}
	if sale.Salesperson != nil {
		dto.SalespersonName = sale.Salesperson.DisplayName()
	}
	return dto
}

func ToDealFinancialsDTO(f finance.DealFinancials) domain.DealFinancialsDTO {
	return domain.DealFinancialsDTO{
		ServiceRevenue: Money(f.ServiceRevenue),
		LaborCost:      Money(f.LaborCost),
		LaborHours:     Money(f.LaborHours),
		TotalValue:     Money(f.TotalValue),
		TotalCost:      Money(f.TotalCost),
		MarginAmount:   Money(f.MarginAmount),
		MarginPercent:  Money(f.MarginPercent),
	}
}

// ToDealDTO converts Deal to DealDTO with financials computed from the loaded activities
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:                    deal.ID,
		Title:                 deal.Title,
		ClientName:            deal.ClientName,
		ClientContact:         deal.ClientContact,
		Stage:                 deal.Stage,
		StageLabel:            deal.Stage.Label(),
		EstimatedProductValue: Money(deal.EstimatedProductValue),
		EstimatedProductCost:  Money(deal.EstimatedProductCost),
		SalespersonID:         deal.SalespersonID,
		SaleID:                deal.SaleID,
		Financials:            ToDealFinancialsDTO(finance.ForDeal(deal)),
		CreatedAt:             deal.CreatedAt.Format(timeLayout),
		UpdatedAt:             deal.UpdatedAt.Format(timeLayout),
	}
	if deal.Salesperson != nil {
		dto.SalespersonName = deal.Salesperson.DisplayName()
	}
	return dto
}

// ToDealDetailDTO keeps the activity and message order of the loaded deal
func ToDealDetailDTO(deal *domain.Deal) domain.DealDetailDTO {
	dto := domain.DealDetailDTO{
		DealDTO:    ToDealDTO(deal),
		Activities: make([]domain.ActivityDTO, 0, len(deal.Activities)),
		Messages:   make([]domain.ChatMessageDTO, 0, len(deal.Messages)),
	}
	for i := range deal.Activities {
		dto.Activities = append(dto.Activities, ToActivityDTO(&deal.Activities[i]))
	}
	for i := range deal.Messages {
		dto.Messages = append(dto.Messages, ToChatMessageDTO(&deal.Messages[i]))
	}
	if deal.Sale != nil {
		sale := ToSaleDTO(deal.Sale)
		dto.Sale = &sale
	}
	return dto
}

func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	dto := domain.ActivityDTO{
		ID:                activity.ID,
		DealID:            activity.DealID,
		ServiceCategoryID: activity.ServiceCategoryID,
		RoleID:            activity.RoleID,
		Description:       activity.Description,
		SalePrice:         Money(activity.SalePrice),
		Hours:             Money(activity.Hours),
		Cost:              Money(finance.ActivityCost(activity)),
		ActivityDate:      activity.ActivityDate.Format(dateLayout),
		Notes:             activity.Notes,
		CreatedAt:         activity.CreatedAt.Format(timeLayout),
	}
	if activity.ServiceCategory != nil {
		dto.ServiceCategoryName = activity.ServiceCategory.Name
	}
	if activity.Role != nil {
		dto.RoleName = activity.Role.Name
	}
	return dto
}

func ToChatMessageDTO(msg *domain.ChatMessage) domain.ChatMessageDTO {
	dto := domain.ChatMessageDTO{
		ID:        msg.ID,
		DealID:    msg.DealID,
		AuthorID:  msg.AuthorID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.Format(timeLayout),
	}
	if msg.Author != nil {
		dto.AuthorName = msg.Author.DisplayName()
	}
	return dto
}

func ToCostAdvisoryDTO(a finance.Advisory) domain.CostAdvisoryDTO {
	return domain.CostAdvisoryDTO{
		Cost:             Money(a.Cost),
		MinimumPrice:     Money(a.MinimumPrice),
		ThresholdPercent: Money(a.ThresholdPercent),
		ShowAdvisory:     a.Show,
		Message:          a.Message,
	}
}

func ToMonthlyStatsDTO(stats *domain.MonthlyManualStats) domain.MonthlyStatsDTO {
	return domain.MonthlyStatsDTO{
		ID:                 stats.ID,
		Year:               stats.Year,
		Month:              stats.Month,
		MarketingCost:      Money(stats.MarketingCost),
		FixedCosts:         Money(stats.FixedCosts),
		RejectedFinancings: stats.RejectedFinancings,
	}
}

func ToBudgetDTO(budget *domain.Budget) domain.BudgetDTO {
	dto := domain.BudgetDTO{
		ID:                  budget.ID,
		Year:                budget.Year,
		Month:               budget.Month,
		CategoryID:          budget.CategoryID,
		SalesTarget:         Money(budget.SalesTarget),
		MarginPercentTarget: Money(budget.MarginPercentTarget),
	}
	if budget.Category != nil {
		dto.CategoryName = budget.Category.Name
	}
	return dto
}

func ToSettingsDTO(settings *domain.GlobalSettings) domain.SettingsDTO {
	dto := domain.SettingsDTO{MinMarginPercent: Money(settings.MinMarginPercent)}
	if !settings.UpdatedAt.IsZero() {
		dto.UpdatedAt = settings.UpdatedAt.Format(timeLayout)
	}
	return dto
}

func ToPeriodDTO(p finance.Period) domain.PeriodDTO {
	dto := domain.PeriodDTO{Title: p.Title(), Filtered: p.IsFiltered()}
	if p.Year != 0 {
		year := p.Year
		dto.Year = &year
	}
	if p.Month != 0 {
		month := p.Month
		dto.Month = &month
	}
	return dto
}

// ToDashboardDTO converts computed dashboard figures to the API shape
func ToDashboardDTO(d *finance.Dashboard, availableYears []int) domain.DashboardDTO {
	dto := domain.DashboardDTO{
		Period:             ToPeriodDTO(d.Period),
		ProductRevenue:     Money(d.ProductRevenue),
		ProductCost:        Money(d.ProductCost),
		ServiceRevenue:     Money(d.ServiceRevenue),
		TotalRevenue:       Money(d.TotalRevenue),
		GrossMargin:        Money(d.GrossMargin),
		GrossMarginPercent: Money(d.GrossMarginPercent),
		AverageTicket:      Money(d.AverageTicket),
		SaleCount:          d.SaleCount,
		FinancedCount:      d.FinancedCount,
		FinancedPercent:    Money(d.FinancedPercent),
		ReturnedCount:      d.ReturnedCount,
		ServiceShare:       Money(d.ServiceSharePercent),
		LaborCost:          Money(d.LaborCost),
		FixedCosts:         Money(d.FixedCosts),
		MarketingCost:      Money(d.MarketingCost),
		OperatingCosts:     Money(d.OperatingCosts),
		OperatingProfit:    Money(d.OperatingProfit),
		DealsCreated:       d.DealsCreated,
		DealsLost:          d.DealsLost,
		LossRatePercent:    Money(d.LossRatePercent),
		CostPerLead:        Money(d.CostPerLead),
		AvgFulfillmentDays: d.AverageFulfillmentDays,
		AvgAssemblyCost:    Money(d.AverageAssemblyCost),
		RejectedFinancings: d.RejectedFinancings,
		Pipeline: domain.PipelineKPIDTO{
			Count:     d.Pipeline.Count,
			Value:     Money(d.Pipeline.Value),
			LaborCost: Money(d.Pipeline.LaborCost),
		},
		Categories:     make([]domain.CategorySummaryDTO, 0, len(d.Categories)),
		Alerts:         make([]domain.AlertDTO, 0, len(d.Alerts)),
		AvailableYears: availableYears,
	}
	if dto.AvailableYears == nil {
		dto.AvailableYears = []int{}
	}

	for _, c := range d.Categories {
		row := domain.CategorySummaryDTO{
			CategoryID:    c.CategoryID,
			Name:          c.Name,
			Revenue:       Money(c.Revenue),
			Cost:          Money(c.Cost),
			Margin:        Money(c.Margin),
			MarginPercent: Money(c.MarginPercent),
		}
		if c.Budget != nil {
			sales := Money(c.Budget.SalesTarget)
			margin := Money(c.Budget.MarginPercentTarget)
			salesDev := Money(c.Budget.SalesDeviation)
			marginDev := Money(c.Budget.MarginPercentDeviation)
			row.BudgetSales = &sales
			row.BudgetMarginPercent = &margin
			row.SalesDeviation = &salesDev
			row.MarginPercentDeviation = &marginDev
		}
		dto.Categories = append(dto.Categories, row)
	}

	for _, a := range d.Alerts {
		dto.Alerts = append(dto.Alerts, domain.AlertDTO{Level: string(a.Level), Message: a.Message})
	}

	for _, p := range d.Trend {
		dto.Trend = append(dto.Trend, domain.TrendPointDTO{
			Month:           p.Label,
			Revenue:         Money(p.Revenue),
			GrossMargin:     Money(p.GrossMargin),
			OperatingProfit: Money(p.OperatingProfit),
		})
	}
	return dto
}

func ToRoleLaborDTO(r finance.RoleLabor) domain.RoleLaborDTO {
	return domain.RoleLaborDTO{
		RoleID:   r.RoleID,
		RoleName: r.RoleName,
		Hours:    Money(r.Hours),
		Cost:     Money(r.Cost),
	}
}

func ToDealLaborDTO(d finance.DealLabor) domain.DealLaborDTO {
	return domain.DealLaborDTO{
		DealID:          d.Deal.ID,
		Title:           d.Deal.Title,
		Stage:           d.Deal.Stage,
		SalespersonName: d.Deal.Salesperson.DisplayName(),
		Hours:           Money(d.Hours),
		Cost:            Money(d.Cost),
	}
}

func ToSalespersonStatsDTO(s finance.SalespersonStats) domain.SalespersonStatsDTO {
	return domain.SalespersonStatsDTO{
		UserID:        s.UserID,
		Name:          s.Name,
		Revenue:       Money(s.Revenue),
		Cost:          Money(s.Cost),
		Margin:        Money(s.Margin),
		MarginPercent: Money(s.MarginPercent),
		AverageTicket: Money(s.AverageTicket),
		SaleCount:     s.SaleCount,
	}
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
