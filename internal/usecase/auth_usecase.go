package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/clock"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour

	minPasswordLength = 8
)

// PasswordHasher はパスワードのハッシュ化と照合の約束。実装はbcrypt。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// AccessTokenIssuer はJWTの発行。token_versionを含める。
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, expiresAt time.Time) (string, error)
}

type AuthUsecase struct {
	userRepo    repo.UserRepository
	refreshRepo repo.RefreshTokenRepository
	hasher      PasswordHasher
	issuer      AccessTokenIssuer
	clock       clock.Clock
	log         *zap.Logger
}

func NewAuthUsecase(
	userRepo repo.UserRepository,
	refreshRepo repo.RefreshTokenRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	c clock.Clock,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		hasher:      hasher,
		issuer:      issuer,
		clock:       c,
		log:         log,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
}

type UserOutput struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func validateCredentials(email string, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "invalid email"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// Register は客アカウントを作る。役割は常にCUSTOMER。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateCredentials(email, in.Password); err != nil {
		return UserOutput{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return UserOutput{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	if _, exists, err := u.userRepo.FindByEmail(ctx, email); err != nil {
		return UserOutput{}, &DependencyError{Op: "lookup user", Err: err}
	} else if exists {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, &DependencyError{Op: "hash password", Err: err}
	}

	now := u.clock.Now()
	user := model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := u.userRepo.Create(ctx, user)
	if err != nil {
		return UserOutput{}, &DependencyError{Op: "create user", Err: err}
	}
	user.ID = id
	return toUserOutput(user), nil
}

// Login はメール＋パスワードで認証してトークンペアを返す。
// 存在しないメールと不一致パスワードは同じエラーにする。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, exists, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, &DependencyError{Op: "lookup user", Err: err}
	}
	if !exists || !user.IsActive || !u.hasher.Verify(user.PasswordHash, in.Password) {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	pair, err := u.issueTokens(ctx, user, in.UserAgent)
	if err != nil {
		return TokenPair{}, err
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		u.log.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return pair, nil
}

// Refresh はリフレッシュトークンを使い捨てで回す。
// 使用済みトークンの再提示は盗難とみなし、全セッションを無効化する。
func (u *AuthUsecase) Refresh(ctx context.Context, rawToken string, userAgent string) (TokenPair, error) {
	if rawToken == "" {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	now := u.clock.Now()
	rt, err := u.refreshRepo.FindByHash(ctx, hashToken(rawToken))
	if errors.Is(err, repo.ErrNotFound) {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if err != nil {
		return TokenPair{}, &DependencyError{Op: "lookup refresh token", Err: err}
	}

	if rt.RevokedAt != nil || now.After(rt.ExpiresAt) {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if rt.UsedAt != nil {
		if err := u.refreshRepo.RevokeAllForUser(ctx, rt.UserID, now); err != nil {
			u.log.Error("failed to revoke sessions after token reuse",
				zap.Int64("user_id", rt.UserID), zap.Error(err))
		}
		u.log.Warn("refresh token reuse detected", zap.Int64("user_id", rt.UserID))
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if err != nil {
		return TokenPair{}, &DependencyError{Op: "load user", Err: err}
	}
	if !user.IsActive {
		return TokenPair{}, NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if err := u.refreshRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		return TokenPair{}, &DependencyError{Op: "mark refresh token used", Err: err}
	}
	return u.issueTokens(ctx, user, userAgent)
}

// Logout は提示されたリフレッシュトークンを失効させる。
// 未知のトークンでも成功扱い（ログアウトは冪等）。
func (u *AuthUsecase) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	rt, err := u.refreshRepo.FindByHash(ctx, hashToken(rawToken))
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &DependencyError{Op: "lookup refresh token", Err: err}
	}

	if err := u.refreshRepo.Revoke(ctx, rt.ID, u.clock.Now()); err != nil {
		return &DependencyError{Op: "revoke refresh token", Err: err}
	}
	return nil
}

// CreateStaff は管理者だけが呼べる。STAFFかADMINを作る。
func (u *AuthUsecase) CreateStaff(ctx context.Context, in RegisterInput, role model.Role) (UserOutput, error) {
	if role != model.RoleStaff && role != model.RoleAdmin {
		return UserOutput{}, &ValidationError{Field: "role", Message: "role must be STAFF or ADMIN"}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateCredentials(email, in.Password); err != nil {
		return UserOutput{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return UserOutput{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	if _, exists, err := u.userRepo.FindByEmail(ctx, email); err != nil {
		return UserOutput{}, &DependencyError{Op: "lookup user", Err: err}
	} else if exists {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, &DependencyError{Op: "hash password", Err: err}
	}

	now := u.clock.Now()
	user := model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := u.userRepo.Create(ctx, user)
	if err != nil {
		return UserOutput{}, &DependencyError{Op: "create user", Err: err}
	}
	user.ID = id
	return toUserOutput(user), nil
}

func (u *AuthUsecase) ListUsers(ctx context.Context, page int, limit int) ([]UserOutput, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := u.userRepo.List(ctx, page, limit)
	if err != nil {
		return []UserOutput{}, 0, &DependencyError{Op: "list users", Err: err}
	}

	outs := make([]UserOutput, 0, len(users))
	for _, usr := range users {
		outs = append(outs, toUserOutput(usr))
	}
	return outs, total, nil
}

// Deactivate はアカウント停止。token_versionを上げて発行済みJWTも即死させる。
func (u *AuthUsecase) Deactivate(ctx context.Context, actorID int64, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if actorID == userID {
		return NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	if _, err := u.userRepo.FindByID(ctx, userID); errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	} else if err != nil {
		return &DependencyError{Op: "load user", Err: err}
	}

	now := u.clock.Now()
	if err := u.userRepo.Deactivate(ctx, userID); err != nil {
		return &DependencyError{Op: "deactivate user", Err: err}
	}
	if err := u.userRepo.BumpTokenVersion(ctx, userID); err != nil {
		return &DependencyError{Op: "bump token version", Err: err}
	}
	if err := u.refreshRepo.RevokeAllForUser(ctx, userID, now); err != nil {
		return &DependencyError{Op: "revoke sessions", Err: err}
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserOutput{}, &DependencyError{Op: "load user", Err: err}
	}
	return toUserOutput(user), nil
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user model.User, userAgent string) (TokenPair, error) {
	now := u.clock.Now()
	expiresAt := now.Add(accessTokenTTL)

	access, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, expiresAt)
	if err != nil {
		return TokenPair{}, &DependencyError{Op: "issue access token", Err: err}
	}

	raw, err := newRefreshTokenValue()
	if err != nil {
		return TokenPair{}, &DependencyError{Op: "generate refresh token", Err: err}
	}

	rt := model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	}
	if err := u.refreshRepo.Create(ctx, rt); err != nil {
		return TokenPair{}, &DependencyError{Op: "store refresh token", Err: err}
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresAt:    expiresAt,
	}, nil
}

// DBには生トークンを置かない。SHA-256ハッシュだけ保存する。
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func newRefreshTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
