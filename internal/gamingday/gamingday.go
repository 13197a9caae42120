// Package gamingday pins the casino-configuration collaborator
// contract: gamingDay(timestamp, casinoID) -> date. The boundary
// parameters come from configuration; nothing else in the service is
// allowed to do timezone math.
package gamingday

import "time"

type Config struct {
	// StartHour is the local hour (0-23) at which a gaming day rolls
	// over. Casinos bucket a 2am drop into the previous day's books.
	StartHour int
	Location  *time.Location
}

type Resolver struct {
	def Config
}

func NewResolver(def Config) *Resolver {
	if def.Location == nil {
		def.Location = time.UTC
	}
	if def.StartHour < 0 || def.StartHour > 23 {
		def.StartHour = 6
	}
	return &Resolver{def: def}
}

// Day returns the gaming-day date (midnight, resolver location) that
// the given instant belongs to.
func (r *Resolver) Day(casinoID string, t time.Time) time.Time {
	cfg := r.configFor(casinoID)
	local := t.In(cfg.Location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, cfg.Location)
	if local.Hour() < cfg.StartHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// WindowStart returns the instant the gaming day containing t began.
func (r *Resolver) WindowStart(casinoID string, t time.Time) time.Time {
	cfg := r.configFor(casinoID)
	return r.Day(casinoID, t).Add(time.Duration(cfg.StartHour) * time.Hour)
}

// configFor is where per-casino configuration will plug in once the
// configuration service exposes it; today every casino shares the
// deployment default.
func (r *Resolver) configFor(string) Config {
	return r.def
}
