package model

type Backend string

const (
	BackendRelay     Backend = "relay"
	BackendDirectBot Backend = "direct_bot"
)

type Route string

const (
	RoutePersonal Route = "personal"
	RouteChannel  Route = "channel"
	RouteTest     Route = "test"
)

// DeliveryTarget is where a message goes and through which backend.
type DeliveryTarget struct {
	Backend  Backend
	ChatID   string // chat id or @channel username
	BotToken string // set only for BackendDirectBot
}

// Message is a rendered notification ready for delivery.
type Message struct {
	Text string
	// PhotoURL turns a direct-bot delivery into a photo post with Text as caption.
	PhotoURL string
}

type DispatchStatus string

const (
	StatusSent    DispatchStatus = "sent"
	StatusSkipped DispatchStatus = "skipped"
	StatusFailed  DispatchStatus = "failed"
)

const (
	ReasonNoDestination = "no destination configured"
	ReasonDisabled      = "notification disabled for event"
	ReasonUnknownError  = "unknown error"
)

// DispatchResult is the outcome of one dispatch attempt. It is returned to
// the caller and never persisted.
type DispatchResult struct {
	Route   Route          `json:"route"`
	Status  DispatchStatus `json:"status"`
	Backend Backend        `json:"backend,omitempty"`
	// Detail is the human message for Sent, the reason for Skipped and the
	// error text for Failed.
	Detail string `json:"detail"`
}

func Sent(msg string) DispatchResult      { return DispatchResult{Status: StatusSent, Detail: msg} }
func Skipped(reason string) DispatchResult { return DispatchResult{Status: StatusSkipped, Detail: reason} }
func Failed(detail string) DispatchResult  { return DispatchResult{Status: StatusFailed, Detail: detail} }

func (r DispatchResult) OK() bool { return r.Status == StatusSent }
