package player

import "github.com/kapu/slack-pool-bot-go/internal/backend"

// Record merges a player's chat identity with their scorekeeping profile.
// Invariant: each *_match_count equals the matching win+loss counts; the
// server owns that arithmetic and the cache never recomputes it.
type Record struct {
	ID     string
	Name   string
	Joined string
	IsBot  bool

	Active bool

	SeasonElo                int
	SeasonWinCount           int
	SeasonLossCount          int
	SeasonMatchCount         int
	SeasonGranniesGivenCount int
	SeasonGranniesTakenCount int

	TotalElo                int
	TotalWinCount           int
	TotalLossCount          int
	TotalMatchCount         int
	TotalGranniesGivenCount int
	TotalGranniesTakenCount int
}

// MergeProfile overwrites the scorekeeping fields with the server's state.
// Chat-identity fields are only filled when previously empty, so a profile
// fetched mid-session cannot clobber what the roster already told us.
func (r *Record) MergeProfile(p *backend.Profile) {
	if p == nil {
		return
	}
	if r.Name == "" {
		r.Name = p.Name
	}
	if r.Joined == "" {
		r.Joined = p.Joined
	}

	r.Active = p.Active

	r.SeasonElo = p.SeasonElo
	r.SeasonWinCount = p.SeasonWinCount
	r.SeasonLossCount = p.SeasonLossCount
	r.SeasonMatchCount = p.SeasonMatchCount
	r.SeasonGranniesGivenCount = p.SeasonGranniesGivenCount
	r.SeasonGranniesTakenCount = p.SeasonGranniesTakenCount

	r.TotalElo = p.TotalElo
	r.TotalWinCount = p.TotalWinCount
	r.TotalLossCount = p.TotalLossCount
	r.TotalMatchCount = p.TotalMatchCount
	r.TotalGranniesGivenCount = p.TotalGranniesGivenCount
	r.TotalGranniesTakenCount = p.TotalGranniesTakenCount
}

// ScoreField selects which counter a leaderboard is ranked by.
type ScoreField int

const (
	SeasonElo ScoreField = iota
	TotalElo
	SeasonGranniesGiven
	TotalGranniesGiven
)

// Value returns the ranked counter for a record.
func (f ScoreField) Value(r *Record) int {
	switch f {
	case TotalElo:
		return r.TotalElo
	case SeasonGranniesGiven:
		return r.SeasonGranniesGivenCount
	case TotalGranniesGiven:
		return r.TotalGranniesGivenCount
	default:
		return r.SeasonElo
	}
}

func (f ScoreField) matchCount(r *Record) int {
	switch f {
	case TotalElo, TotalGranniesGiven:
		return r.TotalMatchCount
	default:
		return r.SeasonMatchCount
	}
}

// Eligible reports whether the record belongs on a leaderboard for the
// field's period: active with at least one match played.
func (f ScoreField) Eligible(r *Record) bool {
	return r.Active && f.matchCount(r) > 0
}
