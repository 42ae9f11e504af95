package search

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

// DateTimeField is the token position holding the acquisition timestamp.
const DateTimeField = 1

// ParseDateTime parses a DateTime token such as 20230115 or 20230115123045
// as UTC.
func ParseDateTime(token string) (time.Time, error) {
	return dateparse.ParseIn(token, time.UTC)
}

// ParseUntil parses an upper date bound. A value without a time of day
// covers the whole day, so 2023-01-01 keeps scenes acquired at 09:30 that
// day.
func ParseUntil(token string) (time.Time, error) {
	t, err := ParseDateTime(token)
	if err != nil {
		return time.Time{}, err
	}
	if isMidnight(t) {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return t, nil
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

// FilterDateRange keeps records whose DateTime token falls inside
// [since, until]. A zero bound is open. Records with an unparseable token
// are dropped whenever a bound is set.
func FilterDateRange(records []catalog.Record, since, until time.Time) []catalog.Record {
	if since.IsZero() && until.IsZero() {
		return records
	}

	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		at, err := ParseDateTime(r.Field(DateTimeField))
		if err != nil {
			log.Debug().Err(err).Str("name", r.Name).Msg("date filter: unparseable DateTime token")
			continue
		}
		if !since.IsZero() && at.Before(since) {
			continue
		}
		if !until.IsZero() && at.After(until) {
			continue
		}
		out = append(out, r)
	}
	return out
}
