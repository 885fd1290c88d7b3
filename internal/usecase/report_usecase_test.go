package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSalesReport_SumsBuckets(t *testing.T) {
	orders := &orderRepoMock{}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	orders.On("SalesReport", mock.Anything, from, to).Return([]repo.SalesBucket{
		{Day: from, OrderCount: 3, Revenue: 4500000},
		{Day: from.AddDate(0, 0, 1), OrderCount: 1, Revenue: 250000},
	}, nil)

	uc := NewReportUsecase(orders)
	out, err := uc.SalesReport(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, from, to)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), out.OrderCount)
	assert.Equal(t, int64(4750000), out.Revenue)
	assert.Len(t, out.Buckets, 2)
}

func TestSalesReport_CustomerForbidden(t *testing.T) {
	uc := NewReportUsecase(&orderRepoMock{})
	_, err := uc.SalesReport(context.Background(), model.Actor{UserID: 7, Role: model.RoleCustomer}, time.Now().AddDate(0, -1, 0), time.Now())

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestSalesReport_InvalidRange(t *testing.T) {
	uc := NewReportUsecase(&orderRepoMock{})
	now := time.Now()

	_, err := uc.SalesReport(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, now, now.AddDate(0, 0, -1))
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	_, err = uc.SalesReport(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, now.AddDate(-2, 0, 0), now)
	he, ok = AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
