package backend

import (
	"encoding/json"
	"fmt"
)

// Profile is a player as stored by the scorekeeping server. Field names
// mirror the API payload; the cache merges these over chat-identity data.
type Profile struct {
	SlackID string `json:"slack_id"`
	Name    string `json:"name"`
	Joined  string `json:"joined"`
	Active  bool   `json:"active"`

	SeasonElo                int `json:"season_elo"`
	SeasonWinCount           int `json:"season_win_count"`
	SeasonLossCount          int `json:"season_loss_count"`
	SeasonMatchCount         int `json:"season_match_count"`
	SeasonGranniesGivenCount int `json:"season_grannies_given_count"`
	SeasonGranniesTakenCount int `json:"season_grannies_taken_count"`

	TotalElo                int `json:"total_elo"`
	TotalWinCount           int `json:"total_win_count"`
	TotalLossCount          int `json:"total_loss_count"`
	TotalMatchCount         int `json:"total_match_count"`
	TotalGranniesGivenCount int `json:"total_grannies_given_count"`
	TotalGranniesTakenCount int `json:"total_grannies_taken_count"`
}

// MatchResult is the payload for recording a finished match.
type MatchResult struct {
	Winner  string `json:"winner"`
	Loser   string `json:"loser"`
	Channel string `json:"channel"`
	Granny  bool   `json:"granny"`
}

// MatchSummary is one historical match line.
type MatchSummary struct {
	Date   string `json:"date"`
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

// HeadToHead aggregates results between two players. The server keys the
// win counts by slack id at the top level, so decoding is by hand.
type HeadToHead struct {
	Wins         map[string]int
	History      []MatchSummary
	HistoryCount int
}

func (h *HeadToHead) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h.Wins = make(map[string]int)
	for key, val := range raw {
		switch key {
		case "history":
			if err := json.Unmarshal(val, &h.History); err != nil {
				return fmt.Errorf("head_to_head history: %w", err)
			}
		case "history_count":
			if err := json.Unmarshal(val, &h.HistoryCount); err != nil {
				return fmt.Errorf("head_to_head history_count: %w", err)
			}
		default:
			var n int
			if err := json.Unmarshal(val, &n); err != nil {
				// unknown non-numeric field, skip
				continue
			}
			h.Wins[key] = n
		}
	}
	return nil
}

// EloMatchup previews the points two players stand to win or lose.
type EloMatchup struct {
	SlackID    string `json:"slack_id"`
	Elo        int    `json:"elo"`
	EloWin     int    `json:"elo_win"`
	EloLose    int    `json:"elo_lose"`
	PointsWin  int    `json:"points_win"`
	PointsLose int    `json:"points_lose"`
}

// Challenge is the per-channel challenge object.
type Challenge struct {
	ID         int    `json:"id"`
	Channel    string `json:"channel"`
	Initiator  string `json:"initiator"`
	Challenger string `json:"challenger"`
	Active     bool   `json:"active"`
}

type Season struct {
	PK        int    `json:"pk"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    bool   `json:"active"`
	Winner    string `json:"winner"`
}

type SeasonPlayer struct {
	Player     string `json:"player"`
	EloScore   int    `json:"elo_score"`
	WinCount   int    `json:"win_count"`
	LossCount  int    `json:"loss_count"`
	MatchCount int    `json:"match_count"`
}

type EloHistoryEntry struct {
	EloScore int    `json:"elo_score"`
	Date     string `json:"date"`
	Season   int    `json:"season"`
}
