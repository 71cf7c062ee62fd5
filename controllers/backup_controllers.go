package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/hub"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type BackupController struct {
	Backups   *services.BackupService
	Hub       services.Broadcaster
	KeepCount int
	// OnRestore dipanggil setelah restore berhasil, mis. untuk refresh denah
	OnRestore func()
}

func NewBackupController(backups *services.BackupService, b services.Broadcaster, keep int) *BackupController {
	return &BackupController{Backups: backups, Hub: b, KeepCount: keep}
}

// ListBackups -> GET /backups?counts=true
func (bc *BackupController) ListBackups(c *gin.Context) {
	list := bc.Backups.ListBackups(utils.QueryBool(c, "counts"))
	utils.RespondJSON(c, http.StatusOK, "List of backups", list)
}

func (bc *BackupController) CreateBackup(c *gin.Context) {
	filename, ok := bc.Backups.CreateBackup()
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("backup creation failed"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Backup created", gin.H{"filename": filename})
}

func (bc *BackupController) DeleteBackup(c *gin.Context) {
	filename := c.Param("filename")
	if !bc.Backups.DeleteBackup(filename) {
		utils.RespondError(c, http.StatusNotFound, services.ErrBackupNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Backup deleted", gin.H{"filename": filename})
}

// RestoreBackup -> database aktif diganti; 422 jika backup tidak ada atau rusak
func (bc *BackupController) RestoreBackup(c *gin.Context) {
	filename := c.Param("filename")
	if !bc.Backups.RestoreBackup(filename) {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("restore failed, current database was kept"))
		return
	}

	if bc.Hub != nil {
		bc.Hub.Broadcast(hub.EventBackupRestored, gin.H{"filename": filename})
	}
	if bc.OnRestore != nil {
		bc.OnRestore()
	}
	utils.RespondJSON(c, http.StatusOK, "Backup restored", gin.H{"filename": filename})
}

// CleanupBackups -> POST /backups/cleanup?keep=30
func (bc *BackupController) CleanupBackups(c *gin.Context) {
	keep := bc.KeepCount
	if raw := c.Query("keep"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("keep must be a non-negative number"))
			return
		}
		keep = n
	}

	removed := bc.Backups.CleanupOldBackups(keep)
	utils.RespondJSON(c, http.StatusOK, "Old backups removed", gin.H{"kept": keep, "removed": removed})
}
