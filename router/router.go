package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/table-reservations/config"
	"github.com/yeremiapane/table-reservations/controllers"
	"github.com/yeremiapane/table-reservations/hub"
	"github.com/yeremiapane/table-reservations/middlewares"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

// Dependencies -> semua service yang dibutuhkan controller, dirakit di main
type Dependencies struct {
	Config       config.Config
	Clock        utils.Clock
	Reservations *services.ReservationService
	Query        *services.ReservationQueryService
	Layout       *services.TableLayoutService
	Backups      *services.BackupService
	Reports      *services.ReportService
	Sections     *services.SectionService
	Waiters      *services.WaiterService
	Shifts       *services.ShiftService
	Hub          *hub.Hub
	Redis        *redis.Client
	// OnRestore dipanggil setelah restore backup berhasil
	OnRestore func()
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.Config.HTTP.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())

	httpCfg := deps.Config.HTTP
	if httpCfg.RateLimit > 0 {
		if deps.Redis != nil {
			r.Use(middlewares.RedisRateLimit(deps.Redis, httpCfg.RateLimitPrefix, httpCfg.RateLimit, httpCfg.RateInterval))
		} else {
			r.Use(middlewares.NewRateLimiter(httpCfg.RateLimit, httpCfg.RateInterval).RateLimit())
		}
	}

	numTables := deps.Config.Layout.NumTables

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	reservationCtrl := controllers.NewReservationController(deps.Reservations, deps.Query, deps.Clock)
	reservations := r.Group("/reservations")
	{
		reservations.GET("", reservationCtrl.GetReservations)
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.GET("/:reservation_id", reservationCtrl.GetReservation)
		reservations.PUT("/:reservation_id", reservationCtrl.UpdateReservation)
		reservations.DELETE("/:reservation_id", reservationCtrl.CancelReservation)
	}

	tableCtrl := controllers.NewTableController(deps.Layout, deps.Clock, numTables, deps.Config.Layout.MaxTables)
	r.GET("/layout", tableCtrl.GetLayout)

	if deps.Hub != nil {
		floorPlanCtrl := controllers.NewFloorPlanController(deps.Hub, deps.Layout, deps.Clock, numTables, httpCfg.CORSOrigins)
		r.GET("/ws/layout", floorPlanCtrl.FloorPlanHandler)
	}

	var broadcaster services.Broadcaster
	if deps.Hub != nil {
		broadcaster = deps.Hub
	}
	backupCtrl := controllers.NewBackupController(deps.Backups, broadcaster, deps.Config.Backup.KeepCount)
	backupCtrl.OnRestore = deps.OnRestore
	backups := r.Group("/backups")
	backups.Use(middlewares.BackupLoggerMiddleware())
	{
		backups.GET("", backupCtrl.ListBackups)
		backups.POST("", backupCtrl.CreateBackup)
		backups.POST("/cleanup", backupCtrl.CleanupBackups)
		backups.DELETE("/:filename", backupCtrl.DeleteBackup)
		backups.POST("/:filename/restore", backupCtrl.RestoreBackup)
	}

	reportCtrl := controllers.NewReportController(deps.Reports, deps.Clock)
	reports := r.Group("/reports")
	{
		reports.GET("/stats", reportCtrl.GetStats)
		reports.GET("/export-pdf", reportCtrl.ExportPDF)
	}

	sectionCtrl := controllers.NewSectionController(deps.Sections)
	sections := r.Group("/sections")
	{
		sections.GET("", sectionCtrl.GetSections)
		sections.POST("", sectionCtrl.CreateSection)
		sections.PATCH("/:section_id", sectionCtrl.RenameSection)
		sections.DELETE("/:section_id", sectionCtrl.DeleteSection)
		sections.PUT("/:section_id/tables", sectionCtrl.AssignTables)
	}

	waiterCtrl := controllers.NewWaiterController(deps.Waiters)
	waiters := r.Group("/waiters")
	{
		waiters.GET("", waiterCtrl.GetWaiters)
		waiters.POST("", waiterCtrl.CreateWaiter)
		waiters.PATCH("/:waiter_id", waiterCtrl.RenameWaiter)
		waiters.DELETE("/:waiter_id", waiterCtrl.DeleteWaiter)
	}

	if deps.Shifts != nil {
		shiftCtrl := controllers.NewShiftController(deps.Shifts, deps.Clock)
		r.POST("/waiters/:waiter_id/check-in", shiftCtrl.CheckIn)
		r.GET("/shifts", shiftCtrl.GetShifts)
	}

	return r
}
