package sql

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// slowQueryLogBurst bounds how many slow-query events may be logged in a
// burst before throttling kicks in.
const slowQueryLogBurst = 10

// slowQueryLog emits a structured log event for operations slower than a
// threshold. Events beyond the rate limit are dropped so a saturated
// database cannot also saturate the log sink.
type slowQueryLog struct {
	logger    zerolog.Logger
	threshold time.Duration
	limiter   *rate.Limiter
}

// observe logs one finished operation if it qualifies. Safe on a nil
// receiver so the hot path needs no configuration check.
func (l *slowQueryLog) observe(method, query string, elapsed time.Duration, failed bool) {
	if l == nil || elapsed < l.threshold {
		return
	}
	if !l.limiter.Allow() {
		return
	}

	evt := l.logger.Warn().
		Str("method", method).
		Dur("elapsed", elapsed).
		Bool("failed", failed)
	if op := extractOperation(query); op != "" {
		evt = evt.Str("operation", op)
	}
	evt.Msg("slow database operation")
}
