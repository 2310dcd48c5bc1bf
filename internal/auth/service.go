// Package auth はユーザー登録、ログイン、ベアラートークンの発行・検証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mediwatch/internal/model"
	"github.com/hitoshi/mediwatch/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	JWTSecret   []byte
	TokenExpiry time.Duration // アクセストークン有効期間
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		config:   config,
	}
}

// Register はユーザーを新規登録し、ユーザーIDを返す。
// メールアドレスが既に登録されている場合はDUPLICATE_EMAILエラーを返す。
// 既存レコードには影響しない。
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	// 既存ユーザーの事前チェック。
	// チェックとINSERTの間のレースはDBのユニーク制約が吸収する。
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return "", model.NewDuplicateEmailError()
	}

	digest, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordDigest: digest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", model.NewDuplicateEmailError()
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user.ID, nil
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行する。
// ユーザー未登録とパスワード不一致はどちらもINVALID_CREDENTIALSを返し、区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !VerifyPassword(password, user.PasswordDigest) {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := GenerateToken(user.ID, s.config.JWTSecret, s.config.TokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return token, nil
}

// Authenticate はベアラートークンを検証し、ユーザーIDを返す。
// トークンの形式不正・署名不一致・期限切れ、およびsubjectが既存ユーザーに
// 解決できない場合はUNAUTHORIZEDを返す。副作用はない。
func (s *Service) Authenticate(ctx context.Context, tokenString string) (string, error) {
	userID, err := ParseToken(tokenString, s.config.JWTSecret)
	if err != nil {
		return "", model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve token subject: %w", err)
	}
	if user == nil {
		return "", model.NewUnauthorizedError()
	}

	return user.ID, nil
}
