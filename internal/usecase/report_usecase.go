package usecase

import (
	"context"
	"net/http"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"
)

type ReportUsecase struct {
	orders repo.OrderRepository
}

func NewReportUsecase(orders repo.OrderRepository) *ReportUsecase {
	return &ReportUsecase{orders: orders}
}

type SalesReportOutput struct {
	From       time.Time          `json:"from"`
	To         time.Time          `json:"to"`
	Buckets    []repo.SalesBucket `json:"buckets"`
	OrderCount int64              `json:"order_count"`
	Revenue    int64              `json:"revenue"`
}

// SalesReport aggregates paid orders per day over the range. At most a year
// at a time.
func (u *ReportUsecase) SalesReport(ctx context.Context, actor model.Actor, from time.Time, to time.Time) (SalesReportOutput, error) {
	if !actor.Role.IsStaff() {
		return SalesReportOutput{}, NewHTTPError(http.StatusForbidden, "staff only")
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return SalesReportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid range")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return SalesReportOutput{}, NewHTTPError(http.StatusBadRequest, "range too wide")
	}

	buckets, err := u.orders.SalesReport(ctx, from, to)
	if err != nil {
		return SalesReportOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := SalesReportOutput{From: from, To: to, Buckets: buckets}
	for _, b := range buckets {
		out.OrderCount += b.OrderCount
		out.Revenue += b.Revenue
	}
	return out, nil
}
