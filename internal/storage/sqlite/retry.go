package sqlite

import (
	"strings"
	"time"
)

const maxBusyRetries = 5

// isSQLiteBusy reports whether err is a transient SQLITE_BUSY condition.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy runs fn up to maxBusyRetries times with exponential backoff
// while it keeps returning SQLITE_BUSY. Other errors fail immediately.
func retryOnBusy(fn func() error) error {
	var err error
	delay := 10 * time.Millisecond
	for attempt := 0; attempt < maxBusyRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		err = fn()
		if !isSQLiteBusy(err) {
			return err
		}
	}
	return err
}
