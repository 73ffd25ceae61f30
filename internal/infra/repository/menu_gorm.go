package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

func (r *MenuGormRepository) FindByID(ctx context.Context, menuID int64) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).Where("id = ?", menuID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Menu{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

func (r *MenuGormRepository) FindByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error) {
	if len(menuIDs) == 0 {
		return []model.Menu{}, nil
	}
	var items []model.Menu
	if err := r.db.WithContext(ctx).Where("id IN ?", menuIDs).Find(&items).Error; err != nil {
		return []model.Menu{}, err
	}
	return items, nil
}

func (r *MenuGormRepository) List(ctx context.Context, f repo.MenuListFilter) ([]model.Menu, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Menu{})

	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Q != "" {
		q = q.Where("name ILIKE ?", "%"+f.Q+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Menu{}, 0, err
	}

	var items []model.Menu
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id asc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Menu{}, 0, err
	}

	return items, total, nil
}

func (r *MenuGormRepository) Create(ctx context.Context, m model.Menu) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *MenuGormRepository) Update(ctx context.Context, m model.Menu) error {
	res := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":        m.Name,
			"description": m.Description,
			"category":    m.Category,
			"price":       m.Price,
			"is_active":   m.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MenuGormRepository) UpdateImageURL(ctx context.Context, menuID int64, imageURL string) error {
	res := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("id = ?", menuID).
		Update("image_url", imageURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MenuGormRepository) SoftDelete(ctx context.Context, menuID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", menuID).Delete(&model.Menu{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
