package service

const (
	// Composite severity weights. Fixed for now; kept as named
	// constants so a later revision can make them configurable.
	BurdenWeight  = 0.7
	HygieneWeight = 0.3

	MonthsPerYear = 12
	DaysPerYear   = 365

	// Accepted parameter ranges, enforced at the transport layer.
	MinYear       = 1900
	MaxYear       = 2100
	MinPercentile = 1
	MaxPercentile = 100
)
