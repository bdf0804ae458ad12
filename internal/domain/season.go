package domain

// SeasonStatus is the seasonal state of an ingredient for a given month.
type SeasonStatus string

const (
	SeasonYearRound SeasonStatus = "year-round"
	SeasonIn        SeasonStatus = "in-season"
	SeasonPeak      SeasonStatus = "peak-season"
	SeasonOut       SeasonStatus = "out-of-season"
	SeasonBeginning SeasonStatus = "beginning-of-season"
	SeasonEnd       SeasonStatus = "end-of-season"
)

// Available reports whether the status means the ingredient can be found
// fresh right now (in season, at its peak, or at either edge of its season).
func (s SeasonStatus) Available() bool {
	switch s {
	case SeasonIn, SeasonPeak, SeasonBeginning, SeasonEnd:
		return true
	}
	return false
}

// SynonymGroup is a tagged set of ingredient names considered similar.
type SynonymGroup struct {
	Tag   string   `json:"tag" yaml:"tag"`
	Names []string `json:"names" yaml:"names"`
}

// SynonymTable is versioned configuration data for "similar" substitutions.
type SynonymTable struct {
	Version string         `json:"version" yaml:"version"`
	Groups  []SynonymGroup `json:"groups" yaml:"groups"`
}
