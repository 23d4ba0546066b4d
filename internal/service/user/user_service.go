// Package user 提供用户服务
package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// UserService 用户服务
type UserService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, userRepo *repository.UserRepository) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
	}
}

// UserProfile 用户详情
type UserProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phoneNumber,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	IsBan     bool      `json:"is_ban"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phoneNumber,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Role     string `form:"role" json:"role"`
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return toProfile(user), nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		if len(*req.Name) < 5 {
			return nil, apperrors.ErrNameTooShort
		}
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		if *req.Phone != "" && !utils.ValidatePhone(*req.Phone) {
			return nil, apperrors.ErrPhoneInvalid
		}
		updates["phone"] = *req.Phone
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, updates); err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.OldPassword, user.Password) {
		return apperrors.ErrInvalidParams.WithMessage("原密码错误")
	}
	if len(req.NewPassword) < 8 {
		return apperrors.ErrPasswordWeak
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.ErrInternalError.WithError(err)
	}

	// 改密后强制重新登录
	updates := map[string]interface{}{
		"password":      hashed,
		"refresh_token": nil,
	}
	if err := s.userRepo.UpdateFields(ctx, userID, updates); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListUsers 管理员获取用户列表
func (s *UserService) ListUsers(ctx context.Context, req *UserListRequest) ([]*UserProfile, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filters := map[string]interface{}{}
	if req.Username != "" {
		filters["username"] = req.Username
	}
	if req.Email != "" {
		filters["email"] = req.Email
	}
	if req.Role != "" {
		filters["role"] = req.Role
	}

	offset := (req.Page - 1) * req.PageSize
	users, total, err := s.userRepo.List(ctx, offset, req.PageSize, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}

	result := make([]*UserProfile, 0, len(users))
	for _, u := range users {
		result = append(result, toProfile(u))
	}
	return result, total, nil
}

// SetUserRole 管理员调整用户角色
func (s *UserService) SetUserRole(ctx context.Context, userID int64, role string) error {
	if role != models.RoleUser && role != models.RoleHotelOwner && role != models.RoleAdmin {
		return apperrors.ErrInvalidParams.WithMessage("无效的角色")
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	logger.Infof("用户角色已更新: user_id=%d, role=%s", userID, role)
	return nil
}

// SetUserBan 管理员封禁或解封用户
func (s *UserService) SetUserBan(ctx context.Context, userID int64, banned bool) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	updates := map[string]interface{}{"is_ban": banned}
	if banned {
		// 封禁同时吊销刷新令牌
		updates["refresh_token"] = nil
	}
	if err := s.userRepo.UpdateFields(ctx, userID, updates); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteUser 管理员删除用户及其预订和评分
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("用户已删除: user_id=%d", userID)
	return nil
}

func toProfile(user *models.User) *UserProfile {
	return &UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Avatar:    utils.SafeString(user.Avatar),
		Role:      user.Role,
		IsBan:     user.IsBan,
		CreatedAt: user.CreatedAt,
	}
}
