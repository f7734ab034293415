package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.t, truncated to tenths.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int(d / (100 * time.Millisecond))
	m := tenths / 600
	s := tenths / 10 % 60
	return fmt.Sprintf("%d:%02d.%d", m, s, tenths%10)
}
