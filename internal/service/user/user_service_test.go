package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

func setupUserTest(t *testing.T) (*UserService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Hotel{}, &models.Room{}, &models.Booking{}, &models.Rating{}))

	return NewUserService(db, repository.NewUserRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, password string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:     "测试用户甲",
		Username: "testuser",
		Email:    "testuser@example.com",
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserService_GetAndUpdateProfile(t *testing.T) {
	svc, db := setupUserTest(t)
	ctx := context.Background()
	user := seedUser(t, db, "password123")

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", profile.Username)

	newName := "测试用户改名"
	newPhone := "13800138000"
	profile, err = svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{Name: &newName, Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, newName, profile.Name)
	assert.Equal(t, newPhone, profile.Phone)

	badName := "abc"
	_, err = svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{Name: &badName})
	assert.ErrorIs(t, err, apperrors.ErrNameTooShort)

	_, err = svc.GetProfile(ctx, 99999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, db := setupUserTest(t)
	ctx := context.Background()
	user := seedUser(t, db, "password123")

	token := "old-refresh-token"
	require.NoError(t, db.Model(user).Update("refresh_token", token).Error)

	err := svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		OldPassword: "wrongpass1",
		NewPassword: "newpassword1",
	})
	require.Error(t, err)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "short",
	})
	assert.ErrorIs(t, err, apperrors.ErrPasswordWeak)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword1",
	})
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword1")))
	assert.Nil(t, updated.RefreshToken)
}

func TestUserService_SetUserRole(t *testing.T) {
	svc, db := setupUserTest(t)
	ctx := context.Background()
	user := seedUser(t, db, "password123")

	require.NoError(t, svc.SetUserRole(ctx, user.ID, models.RoleAdmin))

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	err := svc.SetUserRole(ctx, user.ID, "superuser")
	require.Error(t, err)
}

func TestUserService_SetUserBan(t *testing.T) {
	svc, db := setupUserTest(t)
	ctx := context.Background()
	user := seedUser(t, db, "password123")
	require.NoError(t, db.Model(user).Update("refresh_token", "some-token").Error)

	require.NoError(t, svc.SetUserBan(ctx, user.ID, true))

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.IsBan)
	assert.Nil(t, updated.RefreshToken)

	require.NoError(t, svc.SetUserBan(ctx, user.ID, false))
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.False(t, updated.IsBan)

	assert.ErrorIs(t, svc.SetUserBan(ctx, 99999, true), apperrors.ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	svc, db := setupUserTest(t)
	ctx := context.Background()
	user := seedUser(t, db, "password123")

	hotel := &models.Hotel{Name: "测试酒店", Location: "深圳", OwnerID: 999}
	require.NoError(t, db.Create(hotel).Error)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "101", Type: models.RoomTypeSingle, Price: 300, Capacity: 2}
	require.NoError(t, db.Create(room).Error)

	now := time.Now()
	booking := &models.Booking{
		BookingNo:    "B20260101000001",
		UserID:       user.ID,
		RoomID:       room.ID,
		HotelID:      hotel.ID,
		CheckInDate:  now,
		CheckOutDate: now.Add(24 * time.Hour),
		TotalPrice:   300,
		Status:       models.BookingStatusCompleted,
	}
	require.NoError(t, db.Create(booking).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: user.ID, HotelID: hotel.ID, Rating: 5}).Error)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Booking{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Rating{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.DeleteUser(ctx, user.ID), apperrors.ErrUserNotFound)
}
