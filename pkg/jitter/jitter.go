// Package jitter считает задержки между повторами.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter добавляет к задержке до 50% сверху.
const DefaultJitter = 0.5

// Duration возвращает d плюс случайную добавку в пределах [0, d*factor).
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// ExponentialBackoff удваивает base на каждую попытку (attempt с нуля),
// не превышая ceiling, и добавляет jitter.
func ExponentialBackoff(base, ceiling time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < ceiling; i++ {
		backoff *= 2
	}

	return Duration(min(backoff, ceiling), factor)
}
