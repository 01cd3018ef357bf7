package hostapi

// Statistics is the host's time-series/aggregate query surface (spec.md §6,
// "Statistics: per-player military_strength time series; per-site
// statistics_percent and crude_statistics").
type Statistics interface {
	// MilitaryStrength returns the most recent military strength sample for
	// a player, and whether a sample exists at all (spec.md §4.7: "any
	// division-by-zero or missing sample defaults to not attackable").
	MilitaryStrength(p PlayerID) (value int, ok bool)
	// StatisticsPercent returns a site's production statistics as a percent
	// in [0,100] — spec.md §3 "current_stats".
	StatisticsPercent(site SiteID) int
	// CrudeStatistics returns a short window of recent production ticks,
	// most recent last, used by the Site Supervisor's "stats ≤ X% " checks.
	CrudeStatistics(site SiteID) []bool
}
