package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-reservations/utils"
)

// BackupLoggerMiddleware mencatat setiap operasi backup/restore beserta hasilnya
func BackupLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"filename": c.Param("filename"),
		}
		utils.Info().WithFields(fields).Info("Backup operation requested")

		c.Next()

		fields["status"] = c.Writer.Status()
		if c.Writer.Status() < 400 {
			utils.Info().WithFields(fields).Info("Backup operation finished")
		} else {
			utils.Error().WithFields(fields).Error("Backup operation failed")
		}
	}
}
