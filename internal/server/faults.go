package server

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pipeboard/pipeboard/internal/remote"
)

// Faults injects latency and failures into a route so the board's rollback
// path can be exercised against the dev server.
type Faults struct {
	// FailRate is the probability in [0, 1] that a request fails with 503.
	FailRate float64
	// Latency delays every request before it is handled.
	Latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFaults creates a fault injector with a deterministic random source.
func NewFaults(failRate float64, latency time.Duration, seed uint64) *Faults {
	return &Faults{
		FailRate: failRate,
		Latency:  latency,
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (f *Faults) shouldFail() bool {
	if f.FailRate <= 0 {
		return false
	}
	if f.FailRate >= 1 {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64() < f.FailRate
}

// Middleware applies the configured faults.
func (f *Faults) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if f.Latency > 0 {
				timer := time.NewTimer(f.Latency)
				select {
				case <-timer.C:
				case <-c.Request().Context().Done():
					timer.Stop()
					return c.Request().Context().Err()
				}
			}
			if f.shouldFail() {
				return c.JSON(http.StatusServiceUnavailable, remote.ErrorResponse{
					Error:  "injected failure",
					Reason: remote.ReasonUnavailable,
				})
			}
			return next(c)
		}
	}
}
