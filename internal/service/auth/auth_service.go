// Package auth 提供认证服务
package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// AuthService 认证服务
type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	jwtManager *jwt.Manager,
) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phoneNumber"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User      *UserInfo      `json:"user"`
	TokenPair *jwt.TokenPair `json:"token"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phoneNumber,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Register 注册新用户
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	if len(req.Name) < 5 {
		return nil, apperrors.ErrNameTooShort
	}
	if len(req.Username) < 3 {
		return nil, apperrors.ErrUsernameTooShort
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, apperrors.ErrEmailInvalid
	}
	if len(req.Password) < 8 {
		return nil, apperrors.ErrPasswordWeak
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		return nil, apperrors.ErrPhoneInvalid
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrUsernameExists
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("用户注册成功: user_id=%d, username=%s", user.ID, user.Username)
	return s.toUserInfo(user), nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLoginFailed
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if user.IsBan {
		return nil, apperrors.ErrAccountDisabled
	}

	if !crypto.VerifyPassword(req.Password, user.Password) {
		return nil, apperrors.ErrLoginFailed
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &tokenPair.RefreshToken); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("用户登录成功: user_id=%d, email=%s", user.ID, crypto.MaskEmail(req.Email))

	return &LoginResponse{
		User:      s.toUserInfo(user),
		TokenPair: tokenPair,
	}, nil
}

// Logout 退出登录，清除刷新令牌
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// RefreshToken 刷新 Token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ParseToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	// 刷新令牌必须与库中记录一致，登出后立即失效
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, apperrors.ErrTokenInvalid
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &tokenPair.RefreshToken); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return tokenPair, nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.toUserInfo(user), nil
}

// toUserInfo 转换为用户信息
func (s *AuthService) toUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Avatar:    utils.SafeString(user.Avatar),
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
