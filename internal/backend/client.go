package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Client is the scorekeeping server collaborator. Every call is synchronous
// with a bounded deadline; any non-2xx status is reported as an error so the
// handler can fall back to its apology reply.
type Client struct {
	baseURL string
	token   string
	http    *fasthttp.Client

	defaultTimeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		token:          token,
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Players returns player profiles, optionally filtered/ordered server-side.
func (c *Client) Players(ctx context.Context, params url.Values) ([]Profile, error) {
	var out []Profile
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/player/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePlayer registers a new player for the given chat identity.
func (c *Client) CreatePlayer(ctx context.Context, name, slackID string) (*Profile, error) {
	in := map[string]string{"name": name, "slack_id": slackID}
	var out Profile
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/player/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Player(ctx context.Context, id string) (*Profile, error) {
	var out Profile
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/player/"+id+"/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlayer applies a partial update and returns the fresh profile.
func (c *Client) UpdatePlayer(ctx context.Context, id string, patch map[string]string) (*Profile, error) {
	var out Profile
	if err := c.doJSON(ctx, fasthttp.MethodPatch, "/api/player/"+id+"/", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlayerForm returns the recent W/L sequence as a compact string, newest
// result last, e.g. "W L W".
func (c *Client) PlayerForm(ctx context.Context, id string, limit int) (string, error) {
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	raw, err := c.doRaw(ctx, fasthttp.MethodGet, "/api/player/"+id+"/form/", params, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(string(raw)), `"`)), nil
}

// PlayerGrannies lists every match where the player gave or took a granny.
func (c *Client) PlayerGrannies(ctx context.Context, id string) ([]MatchSummary, error) {
	var out []MatchSummary
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/player/"+id+"/grannies/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EloMatchups previews win/lose points between two players.
func (c *Client) EloMatchups(ctx context.Context, player1, player2 string) ([]EloMatchup, error) {
	params := url.Values{"player1": []string{player1}, "player2": []string{player2}}
	var out []EloMatchup
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/player/elo/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HeadToHead returns aggregate counts plus recent match history.
func (c *Client) HeadToHead(ctx context.Context, player1, player2 string, limit int) (*HeadToHead, error) {
	params := url.Values{
		"player1": []string{player1},
		"player2": []string{player2},
		"limit":   []string{strconv.Itoa(limit)},
	}
	var out HeadToHead
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/match/head_to_head/", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordMatch submits a finished match. The server answers 201 on success.
func (c *Client) RecordMatch(ctx context.Context, result MatchResult) error {
	return c.doJSON(ctx, fasthttp.MethodPost, "/api/match/", nil, result, nil)
}

// Challenges lists challenge objects, optionally for one channel.
func (c *Client) Challenges(ctx context.Context, channel string) ([]Challenge, error) {
	var params url.Values
	if channel != "" {
		params = url.Values{"channel": []string{channel}}
	}
	var out []Challenge
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/challenge/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChallenge(ctx context.Context, channel, initiator string) (*Challenge, error) {
	in := map[string]string{"channel": channel, "initiator": initiator}
	var out Challenge
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/challenge/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateChallenge patches a challenge instance; the server validates the
// transition (free slots, staleness) and rejects with a 4xx otherwise.
func (c *Client) UpdateChallenge(ctx context.Context, id int, patch map[string]any) (*Challenge, error) {
	var out Challenge
	path := fmt.Sprintf("/api/challenge/%d/", id)
	if err := c.doJSON(ctx, fasthttp.MethodPatch, path, nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seasons(ctx context.Context, ordering string) ([]Season, error) {
	var params url.Values
	if ordering != "" {
		params = url.Values{"ordering": []string{ordering}}
	}
	var out []Season
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/season/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SeasonPlayers(ctx context.Context, seasonPK int, ordering string) ([]SeasonPlayer, error) {
	params := url.Values{"season": []string{strconv.Itoa(seasonPK)}}
	if ordering != "" {
		params.Set("ordering", ordering)
	}
	var out []SeasonPlayer
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/season-player/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EloHistory(ctx context.Context, player string) ([]EloHistoryEntry, error) {
	params := url.Values{"player": []string{player}}
	var out []EloHistoryEntry
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/elo-history/", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, in any, out any) error {
	body, err := c.doRaw(ctx, method, path, params, in)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, params url.Values, in any) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	uri := c.baseURL + path
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("backend error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
