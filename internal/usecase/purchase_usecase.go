package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/clock"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 仕入れ記録とダッシュボード集計。金額は全部サタン。
type PurchaseUsecase struct {
	purchaseRepo   repo.PurchaseRepository
	ingredientRepo repo.IngredientRepository
	orderRepo      repo.OrderRepository
	clock          clock.Clock
}

func NewPurchaseUsecase(
	purchaseRepo repo.PurchaseRepository,
	ingredientRepo repo.IngredientRepository,
	orderRepo repo.OrderRepository,
	c clock.Clock,
) *PurchaseUsecase {
	return &PurchaseUsecase{
		purchaseRepo:   purchaseRepo,
		ingredientRepo: ingredientRepo,
		orderRepo:      orderRepo,
		clock:          c,
	}
}

type IngredientInput struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type PurchaseInput struct {
	IngredientID int64      `json:"ingredient_id"`
	Quantity     int64      `json:"quantity"`
	UnitCost     int64      `json:"unit_cost"`
	Note         string     `json:"note"`
	PurchasedAt  *time.Time `json:"purchased_at"`
}

type PurchaseOutput struct {
	ID           int64     `json:"id"`
	IngredientID int64     `json:"ingredient_id"`
	AdminUserID  int64     `json:"admin_user_id"`
	Quantity     int64     `json:"quantity"`
	UnitCost     int64     `json:"unit_cost"`
	TotalCost    int64     `json:"total_cost"`
	Note         string    `json:"note"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

type DashboardSummary struct {
	Month        string `json:"month"`
	SalesTotal   int64  `json:"sales_total"`
	PurchaseCost int64  `json:"purchase_cost"`
	GrossProfit  int64  `json:"gross_profit"`
}

func (u *PurchaseUsecase) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	ings, err := u.ingredientRepo.List(ctx)
	if err != nil {
		return nil, &DependencyError{Op: "list ingredients", Err: err}
	}
	return ings, nil
}

func (u *PurchaseUsecase) CreateIngredient(ctx context.Context, in IngredientInput) (model.Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Ingredient{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(in.Unit) == "" {
		return model.Ingredient{}, &ValidationError{Field: "unit", Message: "unit is required"}
	}

	now := u.clock.Now()
	ing := model.Ingredient{
		Name:      name,
		Unit:      strings.TrimSpace(in.Unit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := u.ingredientRepo.Create(ctx, ing)
	if err != nil {
		return model.Ingredient{}, &DependencyError{Op: "create ingredient", Err: err}
	}
	ing.ID = id
	return ing, nil
}

func (u *PurchaseUsecase) List(ctx context.Context, f repo.PurchaseListFilter) ([]PurchaseOutput, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	purchases, total, err := u.purchaseRepo.List(ctx, f)
	if err != nil {
		return []PurchaseOutput{}, 0, &DependencyError{Op: "list purchases", Err: err}
	}

	outs := make([]PurchaseOutput, 0, len(purchases))
	for _, p := range purchases {
		outs = append(outs, toPurchaseOutput(p))
	}
	return outs, total, nil
}

func (u *PurchaseUsecase) Create(ctx context.Context, adminUserID int64, in PurchaseInput) (PurchaseOutput, error) {
	if adminUserID <= 0 {
		return PurchaseOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.IngredientID <= 0 {
		return PurchaseOutput{}, &ValidationError{Field: "ingredient_id", Message: "invalid ingredient_id"}
	}
	if in.Quantity <= 0 {
		return PurchaseOutput{}, &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}
	if in.UnitCost <= 0 {
		return PurchaseOutput{}, &ValidationError{Field: "unit_cost", Message: "unit_cost must be positive"}
	}

	if _, err := u.ingredientRepo.FindByID(ctx, in.IngredientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return PurchaseOutput{}, &ValidationError{Field: "ingredient_id", Message: "ingredient not found"}
		}
		return PurchaseOutput{}, &DependencyError{Op: "load ingredient", Err: err}
	}

	now := u.clock.Now()
	purchasedAt := now
	if in.PurchasedAt != nil {
		purchasedAt = *in.PurchasedAt
	}

	p := model.Purchase{
		IngredientID: in.IngredientID,
		AdminUserID:  adminUserID,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		TotalCost:    in.Quantity * in.UnitCost,
		Note:         in.Note,
		PurchasedAt:  purchasedAt,
		CreatedAt:    now,
	}
	id, err := u.purchaseRepo.Create(ctx, p)
	if err != nil {
		return PurchaseOutput{}, &DependencyError{Op: "create purchase", Err: err}
	}
	p.ID = id
	return toPurchaseOutput(p), nil
}

func (u *PurchaseUsecase) Delete(ctx context.Context, purchaseID int64) error {
	if purchaseID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.purchaseRepo.Delete(ctx, purchaseID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return &DependencyError{Op: "delete purchase", Err: err}
	}
	return nil
}

// Dashboard は月次の売上（完了注文）と仕入れ支出を集計する。
// month は "2006-01" 形式。空ならタイ時間の今月。
func (u *PurchaseUsecase) Dashboard(ctx context.Context, month string) (DashboardSummary, error) {
	base := u.clock.Now()
	if month != "" {
		t, err := clock.ParseMonth(month)
		if err != nil {
			return DashboardSummary{}, &ValidationError{Field: "month", Message: "month must be in YYYY-MM format"}
		}
		base = t
	}
	from, to := clock.MonthRange(base)

	sales, err := u.orderRepo.SumCompletedAmount(ctx, from, to)
	if err != nil {
		return DashboardSummary{}, &DependencyError{Op: "sum sales", Err: err}
	}
	cost, err := u.purchaseRepo.SumCost(ctx, from, to)
	if err != nil {
		return DashboardSummary{}, &DependencyError{Op: "sum purchase cost", Err: err}
	}

	return DashboardSummary{
		Month:        from.Format("2006-01"),
		SalesTotal:   sales,
		PurchaseCost: cost,
		GrossProfit:  sales - cost,
	}, nil
}

func toPurchaseOutput(p model.Purchase) PurchaseOutput {
	return PurchaseOutput{
		ID:           p.ID,
		IngredientID: p.IngredientID,
		AdminUserID:  p.AdminUserID,
		Quantity:     p.Quantity,
		UnitCost:     p.UnitCost,
		TotalCost:    p.TotalCost,
		Note:         p.Note,
		PurchasedAt:  p.PurchasedAt,
	}
}
