package util

import "fmt"

// FormatDuration renders whole seconds as HH:MM:SS. Negative values render as zero.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
