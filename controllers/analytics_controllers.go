package controllers

import (
	"time"

	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"gorm.io/gorm"
)

// AnalyticsController serves the staff dashboard counters.
type AnalyticsController struct {
	DB *gorm.DB
}

func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

// Dashboard reports live queue counters and today's totals.
func (ac *AnalyticsController) Dashboard(req *router.Request, _ router.Params) *router.Response {
	todayStart := startOfDay(time.Now())

	pending, err := ac.countByStatus(models.StatusPending)
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}
	preparing, err := ac.countByStatus(models.StatusPreparing)
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	var completedToday int64
	err = ac.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.StatusReady, models.StatusDelivered}).
		Where("created_at >= ?", todayStart).
		Count(&completedToday).Error
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	var avgWait float64
	err = ac.DB.Model(&models.Order{}).
		Where("status IN ?", models.ActiveStatuses).
		Select("COALESCE(AVG(estimated_wait_time), 0)").
		Scan(&avgWait).Error
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	var revenue float64
	err = ac.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.StatusDelivered, todayStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	return router.Success(map[string]interface{}{
		"pendingOrders":   pending,
		"preparingOrders": preparing,
		"completedToday":  completedToday,
		"averageWaitTime": int(avgWait),
		"totalRevenue":    revenue,
	})
}

// Orders reports date-range order analytics; both bounds default to
// today and are inclusive calendar days.
func (ac *AnalyticsController) Orders(req *router.Request, _ router.Params) *router.Response {
	today := time.Now().Format("2006-01-02")
	startRaw := req.QueryParam("start", today)
	endRaw := req.QueryParam("end", today)

	start, err := time.ParseInLocation("2006-01-02", startRaw, time.Local)
	if err != nil {
		return router.BadRequest("Invalid start date")
	}
	end, err := time.ParseInLocation("2006-01-02", endRaw, time.Local)
	if err != nil {
		return router.BadRequest("Invalid end date")
	}
	endExclusive := end.AddDate(0, 0, 1)

	var total int64
	err = ac.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, endExclusive).
		Count(&total).Error
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	completed, err := ac.countByStatusInRange(models.StatusDelivered, start, endExclusive)
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}
	cancelled, err := ac.countByStatusInRange(models.StatusCancelled, start, endExclusive)
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	var revenue float64
	err = ac.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusDelivered, start, endExclusive).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return router.ServerError("Failed to load analytics")
	}

	return router.Success(map[string]interface{}{
		"dateRange": map[string]string{
			"start": startRaw,
			"end":   endRaw,
		},
		"totalOrders":     total,
		"completedOrders": completed,
		"cancelledOrders": cancelled,
		"revenue":         revenue,
	})
}

func (ac *AnalyticsController) countByStatus(status string) (int64, error) {
	var count int64
	err := ac.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (ac *AnalyticsController) countByStatusInRange(status string, start, endExclusive time.Time) (int64, error) {
	var count int64
	err := ac.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", status, start, endExclusive).
		Count(&count).Error
	return count, err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
