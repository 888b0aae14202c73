package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
)

// defaultElo is the score every player starts a season on; it stands in for
// the "previous" score when a period begins with no earlier history.
const defaultElo = 1000

// EloHistoryCommand summarizes a player's elo points over time.
type EloHistoryCommand struct {
	baseCommand
	env *Env
}

func NewEloHistoryCommand(env *Env) *EloHistoryCommand {
	return &EloHistoryCommand{
		baseCommand: baseCommand{
			term: "elo-history",
			help: "Returns a player's elo points over time: highest, lowest and net movement today and this month.",
		},
		env: env,
	}
}

func (c *EloHistoryCommand) Process(ctx context.Context, msg Message) (Reply, error) {
	env := c.env
	id := subjectOf(env, msg)

	history, err := env.Backend.EloHistory(ctx, id)
	if err != nil || len(history) == 0 {
		return Reply{Text: env.Msg("elohistory.error", nil)}, nil
	}

	high, low := history[0], history[0]
	for _, h := range history {
		if h.EloScore > high.EloScore {
			high = h
		}
		if h.EloScore < low.EloScore {
			low = h
		}
	}

	now := time.Now()
	return Reply{Text: env.Msg("elohistory.summary", map[string]any{
		"Name":     env.Username(id),
		"HighElo":  high.EloScore,
		"HighDate": isoDate(high.Date),
		"LowElo":   low.EloScore,
		"LowDate":  isoDate(low.Date),
		"TodayNet": formatNet(netSince(history, now, dayOf)),
		"MonthNet": formatNet(netSince(history, now, monthOf)),
	})}, nil
}

func dayOf(ts string) string   { return isoDate(ts) }
func monthOf(ts string) string { d := isoDate(ts); return d[:min(len(d), 7)] }

// netSince computes the points won or lost across the period containing
// now, where period derives a comparable bucket key from a timestamp.
// History entries before the period, when from the same season, supply the
// starting score; otherwise the season default applies.
func netSince(history []backend.EloHistoryEntry, now time.Time, period func(string) string) int {
	sorted := make([]backend.EloHistoryEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	key := period(now.Format("2006-01-02"))
	first := -1
	for i, h := range sorted {
		if period(h.Date) == key {
			first = i
			break
		}
	}
	if first < 0 {
		return 0
	}

	last := sorted[len(sorted)-1]
	// everything in the period must come from one season; a season rollover
	// resets scores to the default and would distort the net
	inPeriod := sorted[first:]
	start := first
	for i := len(inPeriod) - 1; i >= 0; i-- {
		if inPeriod[i].Season != last.Season {
			start = first + i + 1
			break
		}
	}

	previous := defaultElo
	if start > 0 && sorted[start-1].Season == last.Season {
		previous = sorted[start-1].EloScore
	}
	return last.EloScore - previous
}

func formatNet(n int) string {
	if n > 0 {
		return fmt.Sprintf("+ %d", n)
	}
	return fmt.Sprintf("%d", n)
}
