package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"organizese/internal/models/task"
)

// DefaultZone is the locale used for "today" comparisons.
const DefaultZone = "America/Sao_Paulo"

type Clock interface {
	Now() time.Time
	Today() string
}

type zoneClock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(zone string) (Clock, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", zone, err)
	}
	return &zoneClock{loc: loc, now: time.Now}, nil
}

// FixedClock always reports t; used by tests and batch tools.
func FixedClock(t time.Time) Clock {
	return &zoneClock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *zoneClock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *zoneClock) Today() string {
	return c.Now().Format(task.DateLayout)
}
