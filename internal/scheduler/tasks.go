// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	roomRepo    *repository.RoomRepository
	opLogRepo   *repository.OperationLogRepository

	// 退房后延迟多久自动标记完成
	completeAfter time.Duration

	// 操作日志保留时长，零值表示不清理
	logRetention time.Duration
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	roomRepo *repository.RoomRepository,
	opLogRepo *repository.OperationLogRepository,
	completeAfter time.Duration,
	logRetention time.Duration,
) *TaskHandler {
	return &TaskHandler{
		db:            db,
		bookingRepo:   bookingRepo,
		roomRepo:      roomRepo,
		opLogRepo:     opLogRepo,
		completeAfter: completeAfter,
		logRetention:  logRetention,
	}
}

// CompleteFinishedStays 把退房时间已过的已确认预订标记为已完成
// 完成后住客才具备给酒店评分的资格
func (h *TaskHandler) CompleteFinishedStays(ctx context.Context) error {
	deadline := time.Now().Add(-h.completeAfter)

	result := h.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusConfirmed).
		Where("check_out_date <= ?", deadline).
		Update("status", models.BookingStatusCompleted)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("[Task] Completed %d finished stays", result.RowsAffected)
	}

	return nil
}

// ReconcileRoomOccupancy 校准 rooms.is_booked 投影
// 正常流程里预订创建/取消时同步维护，这里兜底修复漏网的不一致
func (h *TaskHandler) ReconcileRoomOccupancy(ctx context.Context) error {
	rooms, err := h.roomRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	fixed := 0

	for _, room := range rooms {
		active, err := h.bookingRepo.CountActiveForRoom(ctx, room.ID, now)
		if err != nil {
			log.Printf("[Task] Failed to count active bookings for room %d: %v", room.ID, err)
			continue
		}

		occupied := active > 0
		if room.IsBooked == occupied {
			continue
		}

		if err := h.roomRepo.SetBooked(ctx, room.ID, occupied); err != nil {
			log.Printf("[Task] Failed to reconcile room %d: %v", room.ID, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Printf("[Task] Reconciled occupancy for %d rooms", fixed)
	}

	return nil
}

// PruneOperationLogs 清理超出保留期的操作日志
func (h *TaskHandler) PruneOperationLogs(ctx context.Context) error {
	if h.logRetention <= 0 {
		return nil
	}

	deleted, err := h.opLogRepo.DeleteBefore(ctx, time.Now().Add(-h.logRetention))
	if err != nil {
		return err
	}

	if deleted > 0 {
		log.Printf("[Task] Pruned %d operation logs", deleted)
	}

	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每 10 分钟把已退房的预订标记完成
	scheduler.AddTask("CompleteFinishedStays", 10*time.Minute, handler.CompleteFinishedStays)

	// 每天清理一次过期的操作日志
	scheduler.AddTask("PruneOperationLogs", 24*time.Hour, handler.PruneOperationLogs)

	// 每小时校准一次房间占用标记
	scheduler.AddTask("ReconcileRoomOccupancy", 1*time.Hour, handler.ReconcileRoomOccupancy)
}
