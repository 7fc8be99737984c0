package repository

import (
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"
)

// parseDateColumn parses a YYYY-MM-DD value produced by strftime in raw
// aggregation queries.
func parseDateColumn(s string) (time.Time, error) {
	return utils.ParseDate(s)
}
