package slackrt

// Event is a single inbound RTM event. Only the fields the bot consumes are
// decoded; everything else on the frame is ignored.
type Event struct {
	Type        string       `json:"type"`
	Subtype     string       `json:"subtype,omitempty"`
	Text        string       `json:"text"`
	User        string       `json:"user"`
	Channel     string       `json:"channel"`
	UserProfile *UserProfile `json:"user_profile,omitempty"`
}

type UserProfile struct {
	Name string `json:"name"`
}

// OutboundMessage is the RTM frame shape for sending a text reply.
type OutboundMessage struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Member is a workspace user as returned by users.list.
type Member struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsBot   bool   `json:"is_bot"`
	Deleted bool   `json:"deleted"`
	Updated int64  `json:"updated"`
}

type rtmConnectResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	URL   string `json:"url"`
}

type usersListResponse struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Members []Member `json:"members"`
}

type chatPostRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type chatPostResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type EventCallback func(event *Event)

type StateCallback func(state SocketState)

type SocketState string

const (
	StateDisconnected SocketState = "disconnected"
	StateConnecting   SocketState = "connecting"
	StateConnected    SocketState = "connected"
	StateReconnecting SocketState = "reconnecting"
	StateFailed       SocketState = "failed"
)
