// Package progress renders text progress bars for resume indicators.
package progress

import (
	"fmt"
	"strings"
	"time"
)

const (
	filled = "█"
	empty  = "░"

	// bytesPerHour is the rough video bitrate used to guess a duration from
	// file size when nothing better is known: 1 GiB per hour.
	bytesPerHour = 1 << 30
)

func clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func blocks(pct float64, length int) string {
	n := int(clamp(pct) / 100 * float64(length))
	return strings.Repeat(filled, n) + strings.Repeat(empty, length-n)
}

// Render draws a bar of length blocks followed by the percentage,
// e.g. "[████░░░░░░]  40%".
func Render(pct float64, length int) string {
	if length <= 0 {
		length = 10
	}
	return fmt.Sprintf("[%s] %3d%%", blocks(pct, length), int(clamp(pct)))
}

// Mini is Render with five blocks.
func Mini(pct float64) string {
	return Render(pct, 5)
}

// Compact is five bare blocks.
func Compact(pct float64) string {
	return blocks(pct, 5)
}

// Color suggests a display color for pct.
func Color(pct float64) string {
	switch {
	case pct >= 95:
		return "blue"
	case pct >= 70:
		return "green"
	case pct >= 30:
		return "yellow"
	default:
		return "red"
	}
}

// WithTime renders a compact bar with "m:ss / m:ss".
func WithTime(current, total time.Duration) string {
	if total <= 0 {
		return "[??????????] --:--"
	}
	pct := float64(current) / float64(total) * 100
	return fmt.Sprintf("[%s] %s / %s", Compact(pct), clock(current), clock(total))
}

func clock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// EstimateDuration guesses a running time from file size.
func EstimateDuration(size int64) time.Duration {
	if size <= 0 {
		return 0
	}
	return time.Duration(float64(size) / bytesPerHour * float64(time.Hour))
}

// Percent of total that position represents, clamped to 0..100.
func Percent(position, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(position) / float64(total) * 100)
}

// FormatTime renders d as "45s", "m:ss" or "h:mm:ss".
func FormatTime(d time.Duration) string {
	s := int(d / time.Second)
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	m, sec := s/60, s%60
	if m < 60 {
		return fmt.Sprintf("%d:%02d", m, sec)
	}
	return fmt.Sprintf("%d:%02d:%02d", m/60, m%60, sec)
}
