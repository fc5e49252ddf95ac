package deps

import (
	"time"

	"github.com/DiasPedroQA/bookmark-converter/internal/convert"
	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
	"github.com/DiasPedroQA/bookmark-converter/internal/stats"
	redisstore "github.com/DiasPedroQA/bookmark-converter/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Converter *convert.Converter // the conversion engine, shared across requests
	Metrics   *stats.Metrics     // conversion counters
	Store     *redisstore.Store  // result cache, nil when Redis is not configured
	CacheTTL  time.Duration      // lifetime of cached results

	MaxBodyBytes int64    // request body limit for the convert endpoint
	AllowedHosts []string // Host headers allowed to access the API
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	RateLimitBurst  int // token bucket burst per client IP (0 disables limiting)
	RateLimitPerMin int // refill rate per client IP per minute
}
