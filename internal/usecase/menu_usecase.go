package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/clock"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMenuPriceSatang = 100_000_00 // 10万バーツ

type MenuUsecase struct {
	menuRepo repo.MenuRepository
	store    storage.Storage
	clock    clock.Clock
	log      *zap.Logger
}

func NewMenuUsecase(menuRepo repo.MenuRepository, store storage.Storage, c clock.Clock, log *zap.Logger) *MenuUsecase {
	return &MenuUsecase{menuRepo: menuRepo, store: store, clock: c, log: log}
}

type MenuInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	IsActive    *bool  `json:"is_active"`
}

type MenuOutput struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func validateMenuInput(in MenuInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(in.Name) > 255 {
		return &ValidationError{Field: "name", Message: "name is too long"}
	}
	if in.Price <= 0 || in.Price > maxMenuPriceSatang {
		return &ValidationError{Field: "price", Message: "price must be a positive amount in satang"}
	}
	return nil
}

// ListPublic は客向けの一覧。販売中のメニューだけを返す。
func (u *MenuUsecase) ListPublic(ctx context.Context, f repo.MenuListFilter) ([]MenuOutput, int64, error) {
	f.ActiveOnly = true
	return u.list(ctx, f)
}

// ListAdmin は店側向け。非公開メニューも含めて返す。
func (u *MenuUsecase) ListAdmin(ctx context.Context, f repo.MenuListFilter) ([]MenuOutput, int64, error) {
	return u.list(ctx, f)
}

func (u *MenuUsecase) list(ctx context.Context, f repo.MenuListFilter) ([]MenuOutput, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	menus, total, err := u.menuRepo.List(ctx, f)
	if err != nil {
		return []MenuOutput{}, 0, &DependencyError{Op: "list menus", Err: err}
	}

	outs := make([]MenuOutput, 0, len(menus))
	for _, m := range menus {
		outs = append(outs, toMenuOutput(m))
	}
	return outs, total, nil
}

func (u *MenuUsecase) Detail(ctx context.Context, menuID int64) (MenuOutput, error) {
	if menuID <= 0 {
		return MenuOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.menuRepo.FindByID(ctx, menuID)
	if errors.Is(err, repo.ErrNotFound) {
		return MenuOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuOutput{}, &DependencyError{Op: "load menu", Err: err}
	}
	return toMenuOutput(m), nil
}

func (u *MenuUsecase) Create(ctx context.Context, in MenuInput) (MenuOutput, error) {
	if err := validateMenuInput(in); err != nil {
		return MenuOutput{}, err
	}

	now := u.clock.Now()
	m := model.Menu{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}

	id, err := u.menuRepo.Create(ctx, m)
	if err != nil {
		return MenuOutput{}, &DependencyError{Op: "create menu", Err: err}
	}
	m.ID = id
	return toMenuOutput(m), nil
}

func (u *MenuUsecase) Update(ctx context.Context, menuID int64, in MenuInput) (MenuOutput, error) {
	if menuID <= 0 {
		return MenuOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateMenuInput(in); err != nil {
		return MenuOutput{}, err
	}

	m, err := u.menuRepo.FindByID(ctx, menuID)
	if errors.Is(err, repo.ErrNotFound) {
		return MenuOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuOutput{}, &DependencyError{Op: "load menu", Err: err}
	}

	m.Name = strings.TrimSpace(in.Name)
	m.Description = in.Description
	m.Category = in.Category
	m.Price = in.Price
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	m.UpdatedAt = u.clock.Now()

	if err := u.menuRepo.Update(ctx, m); err != nil {
		return MenuOutput{}, &DependencyError{Op: "update menu", Err: err}
	}
	return toMenuOutput(m), nil
}

// UploadImage はメニュー画像を保存してURLを紐付ける。
func (u *MenuUsecase) UploadImage(ctx context.Context, menuID int64, image []byte, contentType string) (MenuOutput, error) {
	if menuID <= 0 {
		return MenuOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(image) == 0 {
		return MenuOutput{}, &ValidationError{Field: "image", Message: "image is required"}
	}

	m, err := u.menuRepo.FindByID(ctx, menuID)
	if errors.Is(err, repo.ErrNotFound) {
		return MenuOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuOutput{}, &DependencyError{Op: "load menu", Err: err}
	}

	path := fmt.Sprintf("menus/%d-%s", menuID, uuid.NewString())
	url, err := u.store.Put(ctx, path, image, contentType)
	if err != nil {
		return MenuOutput{}, &DependencyError{Op: "upload menu image", Err: err}
	}

	if err := u.menuRepo.UpdateImageURL(ctx, menuID, url); err != nil {
		if derr := u.store.Delete(ctx, path); derr != nil {
			u.log.Warn("failed to clean up orphan menu image",
				zap.String("path", path), zap.Error(derr))
		}
		return MenuOutput{}, &DependencyError{Op: "update menu image url", Err: err}
	}

	m.ImageURL = url
	return toMenuOutput(m), nil
}

// Delete は論理削除。既存注文のスナップショットは影響を受けない。
func (u *MenuUsecase) Delete(ctx context.Context, menuID int64) error {
	if menuID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.menuRepo.SoftDelete(ctx, menuID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return &DependencyError{Op: "delete menu", Err: err}
	}
	return nil
}

func toMenuOutput(m model.Menu) MenuOutput {
	return MenuOutput{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
