package repository

import (
	"context"
	"errors"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("state = ?", model.StateAktif)

	if q.Q != "" {
		base = base.Where("name ILIKE ?", "%"+q.Q+"%")
	}
	if q.CategoryID != nil {
		base = base.Where("category_id = ?", *q.CategoryID)
	}
	if q.MinPrice != nil {
		base = base.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		base = base.Where("price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		base = base.Order("price asc")
	case "price_desc":
		base = base.Order("price desc")
	default:
		base = base.Order("id desc")
	}

	var items []model.Product
	offset := (q.Page - 1) * q.Limit
	if err := base.Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return items, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("slug = ? AND state = ?", slug, model.StateAktif).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"category_id":  p.CategoryID,
			"name":         p.Name,
			"slug":         p.Slug,
			"description":  p.Description,
			"price":        p.Price,
			"weight_grams": p.WeightGrams,
			"image_url":    p.ImageURL,
			"updated_at":   p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// MarkDeleted flips the lifecycle state; the row stays for order history.
func (r *ProductGormRepository) MarkDeleted(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND state = ?", id, model.StateAktif).
		Update("state", model.StateDihapus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
