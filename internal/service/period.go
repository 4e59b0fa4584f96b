package service

import (
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
)

// dateRange converts the period to a database range. A month without a year has
// no contiguous range and is filtered in memory by the callers.
func dateRange(p finance.Period) *repository.DateRange {
	from, to, ok := p.Range()
	if !ok {
		return nil
	}
	return &repository.DateRange{From: from, To: to}
}

func salesInPeriod(sales []domain.Sale, p finance.Period) []domain.Sale {
	if _, _, ok := p.Range(); ok || p.Month == 0 {
		return sales
	}
	out := sales[:0]
	for _, s := range sales {
		if p.Contains(s.SaleDate) {
			out = append(out, s)
		}
	}
	return out
}

func dealsCreatedInPeriod(deals []domain.Deal, p finance.Period) []domain.Deal {
	if _, _, ok := p.Range(); ok || p.Month == 0 {
		return deals
	}
	out := deals[:0]
	for _, d := range deals {
		if p.Contains(d.CreatedAt) {
			out = append(out, d)
		}
	}
	return out
}

// dealsLinkedTo keeps the deals whose linked sale is one of sales
func dealsLinkedTo(deals []domain.Deal, sales []domain.Sale) []domain.Deal {
	ids := make(map[uuid.UUID]struct{}, len(sales))
	for i := range sales {
		ids[sales[i].ID] = struct{}{}
	}
	out := deals[:0]
	for _, d := range deals {
		if d.SaleID == nil {
			continue
		}
		if _, ok := ids[*d.SaleID]; ok {
			out = append(out, d)
		}
	}
	return out
}
