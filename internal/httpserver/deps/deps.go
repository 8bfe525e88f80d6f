package deps

import (
	"context"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/profile"
)

// Watcher is the part of the watch scheduler the API drives
type Watcher interface {
	Add(req domain.Request, trip *domain.Trip, interval time.Duration) (int, error)
	List(user int64) []*domain.Trip
	Remove(user int64, idx int) (*domain.Trip, error)
	Count() int
}

// SearchCache is the optional provider response cache
type SearchCache interface {
	Ping(ctx context.Context) error
	FlushSearches(ctx context.Context) (int, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedCIDRS []string // IPs allowed to reach /readyz, /metrics and /api
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	RateLimitBurst  int // trip creations allowed at once per client IP
	RateLimitPerMin int // trip creations refilled per minute per client IP

	CheckInterval time.Duration // default period, profiles may override it

	Location *time.Location  // zone user dates are entered in
	Stations domain.Stations // empty when the station list could not be loaded
	Profiles *profile.Set
	Watcher  Watcher
	Cache    SearchCache // nil without Redis
}

// Now returns TimeNow() or time.Now()
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
