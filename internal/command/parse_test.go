package command

import (
	"reflect"
	"testing"
)

func TestMentionsOrderAndBotExclusion(t *testing.T) {
	p := NewParser(testBotID)
	text := "<@" + testBotID + "> record beat <@U2> and <@U3> again <@U2>"
	got := p.Mentions(text)
	want := []string{"U2", "U3", "U2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mentions = %v, want %v", got, want)
	}
}

func TestStripMention(t *testing.T) {
	p := NewParser(testBotID)
	for in, want := range map[string]string{
		"<@" + testBotID + "> stats":      "stats",
		"<@" + testBotID + ">: stats":     "stats",
		"  <@" + testBotID + ">  record ": "record ",
		"stats":                           "stats",
	} {
		if got := p.StripMention(in); got != want {
			t.Errorf("StripMention(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestArgsDropsTermAndMentions(t *testing.T) {
	p := NewParser(testBotID)
	text := "<@" + testBotID + "> leaderboard 20 <@U2> minimum"

	got := p.Args(text, ArgOptions{})
	want := []string{"20", "minimum"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}

	got = p.Args(text, ArgOptions{IncludeTerm: true, IncludeMentions: true})
	want = []string{"leaderboard", "20", "<@U2>", "minimum"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args(all) = %v, want %v", got, want)
	}
}

func TestHasFlag(t *testing.T) {
	p := NewParser(testBotID)
	if !p.HasFlag("leaderboard ALL", "all") {
		t.Fatal("expected flag match to be case-insensitive")
	}
	if p.HasFlag("leaderboard 20", "all") {
		t.Fatal("unexpected flag match")
	}
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 101: "101st",
	} {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}
