package repository

import (
	"context"

	"app/internal/domain/model"
)

type IngredientRepository interface {
	FindByID(ctx context.Context, ingredientID int64) (model.Ingredient, error)
	List(ctx context.Context) ([]model.Ingredient, error)
	Create(ctx context.Context, ing model.Ingredient) (int64, error)
}
