package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Number prefixes for human-readable identifiers.
const (
	PrefixSession    = "SES"
	PrefixJob        = "JOB"
	PrefixInspection = "INS"
	PrefixPart       = "PRT"
)

// NextNumber produces the next date-prefixed identifier for the given table
// column, e.g. SES20250930001. The greatest existing number with today's
// prefix is scanned and its trailing sequence incremented. The scan is not
// atomic across writers; callers create inside a transaction and retry on a
// unique-constraint violation. Past 999 in one day the %03d suffix widens to
// four digits.
func NextNumber(ctx context.Context, tx *gorm.DB, table, column, prefix string, now time.Time) (string, error) {
	dayPrefix := prefix + now.Format("20060102")

	var last string
	err := tx.WithContext(ctx).
		Table(table).
		Select(column).
		Where(column+" LIKE ?", dayPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("scan last %s: %w", column, err)
	}

	seq := 1
	if last != "" {
		n, err := strconv.Atoi(last[len(dayPrefix):])
		if err != nil {
			return "", fmt.Errorf("parse sequence of %q: %w", last, err)
		}
		seq = n + 1
	}

	return fmt.Sprintf("%s%03d", dayPrefix, seq), nil
}
