package assignment

import "time"

// SetNow replaces the clock until the returned func is called.
func SetNow(now func() time.Time) (restore func()) {
	nowFunc = now
	return func() { nowFunc = time.Now }
}
