package usecase

import (
	"context"
	"net/http"
	"testing"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type categoryRepoMock struct{ mock.Mock }

func (m *categoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *categoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *categoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *categoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gitar Akustik Yamaha F310", "gitar-akustik-yamaha-f310"},
		{"  Kabel  Instrumen  3m ", "kabel-instrumen-3m"},
		{"Drum Set (5-Piece)!", "drum-set-5-piece"},
		{"UPPER lower 123", "upper-lower-123"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestStaffCreateProduct_AdminOnly(t *testing.T) {
	uc := NewProductUsecase(&productRepoMock{}, &categoryRepoMock{}, &inventoryRepoMock{}, &auditRepoMock{})

	in := StaffProductInput{CategoryID: 1, Name: "Gitar", Price: 100, WeightGrams: 500, Stock: 1}

	_, err := uc.StaffCreateProduct(context.Background(), model.Actor{UserID: 2, Role: model.RoleGudang}, in)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestStaffCreateProduct_GeneratesSlug(t *testing.T) {
	products := &productRepoMock{}
	categories := &categoryRepoMock{}

	categories.On("FindByID", mock.Anything, int64(1)).Return(model.Category{ID: 1, Name: "Gitar"}, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Slug == "gitar-akustik-yamaha-f310" && p.State == model.StateAktif
	})).Return(model.Product{ID: 10, Slug: "gitar-akustik-yamaha-f310"}, nil)

	uc := NewProductUsecase(products, categories, &inventoryRepoMock{}, &auditRepoMock{})
	id, err := uc.StaffCreateProduct(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, StaffProductInput{
		CategoryID:  1,
		Name:        "Gitar Akustik Yamaha F310",
		Price:       1500000,
		WeightGrams: 3200,
		Stock:       5,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)
	products.AssertExpectations(t)
}

func TestStaffCreateProduct_UnknownCategoryRejected(t *testing.T) {
	products := &productRepoMock{}
	categories := &categoryRepoMock{}
	categories.On("FindByID", mock.Anything, int64(77)).Return(model.Category{}, repo.ErrNotFound)

	uc := NewProductUsecase(products, categories, &inventoryRepoMock{}, &auditRepoMock{})
	_, err := uc.StaffCreateProduct(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, StaffProductInput{
		CategoryID: 77, Name: "Gitar", Price: 100, WeightGrams: 500,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStaffUpdateStock_WritesAdjustmentAndAudit(t *testing.T) {
	products := &productRepoMock{}
	inventory := &inventoryRepoMock{}
	audit := &auditRepoMock{}

	products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Stock: 5}, nil)
	inventory.On("SetStock", mock.Anything, int64(10), int64(12)).Return(nil)
	inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == 10 && a.Delta == 7 && a.Reason == "stock opname"
	})).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.BeforeJSON == `{"stock":5}` &&
			l.AfterJSON == `{"stock":12}`
	})).Return(nil)

	uc := NewProductUsecase(products, &categoryRepoMock{}, inventory, audit)
	err := uc.StaffUpdateStock(context.Background(), model.Actor{UserID: 2, Role: model.RoleGudang}, 10, 12, "stock opname")

	assert.NoError(t, err)
	inventory.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestStaffUpdateStock_ReasonRequired(t *testing.T) {
	uc := NewProductUsecase(&productRepoMock{}, &categoryRepoMock{}, &inventoryRepoMock{}, &auditRepoMock{})
	err := uc.StaffUpdateStock(context.Background(), model.Actor{UserID: 2, Role: model.RoleGudang}, 10, 12, "  ")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestListPublicProducts_Validation(t *testing.T) {
	uc := NewProductUsecase(&productRepoMock{}, &categoryRepoMock{}, &inventoryRepoMock{}, &auditRepoMock{})

	neg := int64(-1)
	low := int64(100)
	high := int64(50)

	cases := []struct {
		name string
		in   ListProductsInput
	}{
		{"page zero", ListProductsInput{Page: 0, Limit: 20}},
		{"limit too big", ListProductsInput{Page: 1, Limit: 101}},
		{"negative min_price", ListProductsInput{Page: 1, Limit: 20, MinPrice: &neg}},
		{"min above max", ListProductsInput{Page: 1, Limit: 20, MinPrice: &low, MaxPrice: &high}},
		{"unknown sort", ListProductsInput{Page: 1, Limit: 20, Sort: "rating"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ListPublicProducts(context.Background(), tc.in)
			he, ok := AsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
		})
	}
}

func TestGetProductBySlug_NotFound(t *testing.T) {
	products := &productRepoMock{}
	products.On("FindBySlug", mock.Anything, "tidak-ada").Return(model.Product{}, repo.ErrNotFound)

	uc := NewProductUsecase(products, &categoryRepoMock{}, &inventoryRepoMock{}, &auditRepoMock{})
	_, err := uc.GetProductBySlug(context.Background(), "tidak-ada")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
