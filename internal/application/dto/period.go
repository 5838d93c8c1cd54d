package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
)

// ParsePeriod interpreta start/end YYYY-MM-DD en hora local. end es inclusivo hasta el final del día;
// sin start se usa el primer día del mes de now y sin end, now.
func ParsePeriod(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("end_date inválido: %s", endStr))
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("start_date inválido: %s", startStr))
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, domain.NewBusinessError(domain.ErrInvalidInput, "start_date no puede ser posterior a end_date")
	}
	return start, end, nil
}
