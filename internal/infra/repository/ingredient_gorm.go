package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type IngredientGormRepository struct {
	db *gorm.DB
}

func NewIngredientGormRepository(db *gorm.DB) *IngredientGormRepository {
	return &IngredientGormRepository{db: db}
}

func (r *IngredientGormRepository) FindByID(ctx context.Context, ingredientID int64) (model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.WithContext(ctx).Where("id = ?", ingredientID).First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Ingredient{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Ingredient{}, err
	}
	return ing, nil
}

func (r *IngredientGormRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	var items []model.Ingredient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return []model.Ingredient{}, err
	}
	return items, nil
}

func (r *IngredientGormRepository) Create(ctx context.Context, ing model.Ingredient) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&ing).Error; err != nil {
		return 0, err
	}
	return ing.ID, nil
}
