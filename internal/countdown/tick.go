package countdown

import (
	"time"

	"clubsite/internal/domain"
)

const (
	msPerDay    = int64(86_400_000)
	msPerHour   = int64(3_600_000)
	msPerMinute = int64(60_000)
	msPerSecond = int64(1000)
)

// Remaining computes the time left from now until target.
// It is a pure function: invalid or reached targets yield the expired zero value.
func Remaining(target Target, now time.Time) domain.TimeLeft {
	if !target.Valid {
		return expired()
	}
	// UnixMilli keeps centuries-away targets exact where time.Duration saturates
	diff := target.At.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return expired()
	}
	return domain.TimeLeft{
		Days:    int(diff / msPerDay),
		Hours:   int((diff / msPerHour) % 24),
		Minutes: int((diff / msPerMinute) % 60),
		Seconds: int((diff / msPerSecond) % 60),
	}
}

func expired() domain.TimeLeft {
	return domain.TimeLeft{Expired: true}
}
