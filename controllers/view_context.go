package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/utils"
)

// viewContext membaca ?date=YYYY-MM-DD&time=HH:MM.
// Jam tanpa tanggal memakai tanggal hari ini.
func viewContext(c *gin.Context, clock utils.Clock) (date, at *time.Time, err error) {
	if raw := c.Query("date"); raw != "" {
		d, ok := utils.ParseDate(raw)
		if !ok {
			return nil, nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
		}
		date = &d
	}

	if raw := c.Query("time"); raw != "" {
		base := clock.Now()
		if date != nil {
			base = *date
		}
		t, ok := utils.CombineDateAndClock(base, raw)
		if !ok {
			return nil, nil, fmt.Errorf("invalid time %q, expected HH:MM", raw)
		}
		at = &t
	}
	return date, at, nil
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &n, nil
}
