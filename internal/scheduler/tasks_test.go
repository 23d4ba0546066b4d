// Package scheduler 定时任务单元测试
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

func setupTaskTest(t *testing.T) (*gorm.DB, *TaskHandler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Hotel{}, &models.Room{}, &models.Booking{}, &models.OperationLog{}))

	handler := NewTaskHandler(
		db,
		repository.NewBookingRepository(db),
		repository.NewRoomRepository(db),
		repository.NewOperationLogRepository(db),
		0,
		30*24*time.Hour,
	)

	return db, handler
}

func seedTaskFixtures(t *testing.T, db *gorm.DB) *models.Room {
	t.Helper()

	owner := &models.User{
		Name: "业主账号", Username: "owner1", Email: "owner1@test.com",
		Password: "x", Role: models.RoleHotelOwner,
	}
	require.NoError(t, db.Create(owner).Error)

	hotel := &models.Hotel{
		Name: "测试酒店", Location: "杭州", Phone: "123",
		Email: "h@test.com", OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(hotel).Error)

	room := &models.Room{
		HotelID: hotel.ID, RoomNumber: "101",
		Type: models.RoomTypeSingle, Price: 200, Capacity: 1,
	}
	require.NoError(t, db.Create(room).Error)

	return room
}

func TestTaskHandler_CompleteFinishedStays(t *testing.T) {
	db, handler := setupTaskTest(t)
	room := seedTaskFixtures(t, db)
	now := time.Now()

	// 已退房的已确认预订应被标记完成
	finished := &models.Booking{
		BookingNo: "BK1", UserID: 1, RoomID: room.ID, HotelID: room.HotelID,
		CheckInDate: now.AddDate(0, 0, -3), CheckOutDate: now.AddDate(0, 0, -1),
		TotalPrice: 400, Status: models.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(finished).Error)

	// 未来的预订不受影响
	upcoming := &models.Booking{
		BookingNo: "BK2", UserID: 1, RoomID: room.ID, HotelID: room.HotelID,
		CheckInDate: now.AddDate(0, 0, 3), CheckOutDate: now.AddDate(0, 0, 5),
		TotalPrice: 400, Status: models.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(upcoming).Error)

	// 待确认的过期预订也不动，留给业主处理
	pending := &models.Booking{
		BookingNo: "BK3", UserID: 1, RoomID: room.ID, HotelID: room.HotelID,
		CheckInDate: now.AddDate(0, 0, -5), CheckOutDate: now.AddDate(0, 0, -4),
		TotalPrice: 200, Status: models.BookingStatusPending,
	}
	require.NoError(t, db.Create(pending).Error)

	require.NoError(t, handler.CompleteFinishedStays(context.Background()))

	var got models.Booking
	require.NoError(t, db.First(&got, finished.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, got.Status)

	require.NoError(t, db.First(&got, upcoming.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)

	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.Equal(t, models.BookingStatusPending, got.Status)
}

func TestTaskHandler_ReconcileRoomOccupancy(t *testing.T) {
	db, handler := setupTaskTest(t)
	room := seedTaskFixtures(t, db)
	now := time.Now()

	// 房间标记为占用，但唯一的预订早已退房
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).Update("is_booked", true).Error)
	require.NoError(t, db.Create(&models.Booking{
		BookingNo: "BK1", UserID: 1, RoomID: room.ID, HotelID: room.HotelID,
		CheckInDate: now.AddDate(0, 0, -3), CheckOutDate: now.AddDate(0, 0, -1),
		TotalPrice: 400, Status: models.BookingStatusCompleted,
	}).Error)

	require.NoError(t, handler.ReconcileRoomOccupancy(context.Background()))

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.False(t, got.IsBooked)

	// 再加一个未退房的预订，标记应翻回占用
	require.NoError(t, db.Create(&models.Booking{
		BookingNo: "BK2", UserID: 1, RoomID: room.ID, HotelID: room.HotelID,
		CheckInDate: now.AddDate(0, 0, 1), CheckOutDate: now.AddDate(0, 0, 2),
		TotalPrice: 400, Status: models.BookingStatusConfirmed,
	}).Error)
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).Update("is_booked", false).Error)

	require.NoError(t, handler.ReconcileRoomOccupancy(context.Background()))

	require.NoError(t, db.First(&got, room.ID).Error)
	assert.True(t, got.IsBooked)
}

func TestTaskHandler_PruneOperationLogs(t *testing.T) {
	db, handler := setupTaskTest(t)
	now := time.Now()

	stale := &models.OperationLog{
		OperatorID: 1, Module: "user", Action: "update",
		IP: "127.0.0.1", CreatedAt: now.AddDate(0, 0, -60),
	}
	require.NoError(t, db.Create(stale).Error)

	recent := &models.OperationLog{
		OperatorID: 1, Module: "booking", Action: "create",
		IP: "127.0.0.1", CreatedAt: now.AddDate(0, 0, -1),
	}
	require.NoError(t, db.Create(recent).Error)

	require.NoError(t, handler.PruneOperationLogs(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.OperationLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var got models.OperationLog
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, recent.ID, got.ID)
}

func TestTaskHandler_PruneOperationLogs_DisabledRetention(t *testing.T) {
	db, handler := setupTaskTest(t)
	handler.logRetention = 0

	require.NoError(t, db.Create(&models.OperationLog{
		OperatorID: 1, Module: "user", Action: "delete",
		IP: "127.0.0.1", CreatedAt: time.Now().AddDate(-1, 0, 0),
	}).Error)

	require.NoError(t, handler.PruneOperationLogs(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.OperationLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddTask("noop", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()

	// 任务启动后会立即执行一次
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}

	s.Stop()
}
