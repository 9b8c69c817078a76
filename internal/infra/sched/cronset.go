package sched

import (
	"time"

	"github.com/adhocore/gronx"
)

// CronSet evaluates a group of five-field cron expressions against a
// reference time. Expressions are interpreted in the time's own zone;
// callers pass UTC to keep the historical trigger semantics.
type CronSet struct {
	exprs []string
	gron  *gronx.Gronx
}

func NewCronSet(exprs ...string) *CronSet {
	return &CronSet{exprs: exprs, gron: gronx.New()}
}

// Due reports whether any expression matches the minute containing t.
func (s *CronSet) Due(t time.Time) bool {
	for _, expr := range s.exprs {
		due, err := s.gron.IsDue(expr, t)
		if err != nil {
			continue
		}
		if due {
			return true
		}
	}
	return false
}
