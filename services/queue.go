package services

import (
	"github.com/tableserve/tableserve/models"
	"gorm.io/gorm"
)

// Wait estimate: flat base plus a per-order increment, clamped at the
// cap. Recomputed from the live queue on every call, never cached.
const (
	BaseWaitMinutes     = 5
	PerOrderWaitMinutes = 2
	MaxWaitMinutes      = 30
)

// EstimateWait is the pure wait-time formula over the current queue
// depth.
func EstimateWait(queueDepth int) int {
	wait := BaseWaitMinutes + PerOrderWaitMinutes*queueDepth
	if wait > MaxWaitMinutes {
		return MaxWaitMinutes
	}
	return wait
}

// QueueService reads queue depth from the order store.
type QueueService struct {
	DB *gorm.DB
}

func NewQueueService(db *gorm.DB) *QueueService {
	return &QueueService{DB: db}
}

// QueueDepth counts orders in a non-terminal status.
func (s *QueueService) QueueDepth() (int, error) {
	var count int64
	err := s.DB.Model(&models.Order{}).
		Where("status IN ?", models.ActiveStatuses).
		Count(&count).Error
	return int(count), err
}

// WaitTime returns the current estimate together with the depth it was
// computed from.
func (s *QueueService) WaitTime() (waitMinutes, queueDepth int, err error) {
	depth, err := s.QueueDepth()
	if err != nil {
		return 0, 0, err
	}
	return EstimateWait(depth), depth, nil
}
