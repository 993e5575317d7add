package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"telefication/internal/domain"
)

type EventKind string

const (
	EventOutgoingEmail    EventKind = "email"
	EventNewComment       EventKind = "comment"
	EventNewPost          EventKind = "post"
	EventNewUser          EventKind = "user"
	EventWooCommerceOrder EventKind = "order"
)

const (
	PostStatusPublish = "publish"
	PostTypePost      = "post"
	CommentStatusSpam = "spam"
)

// Event is a site event that may turn into a notification. The set of
// implementations is closed: OutgoingEmail, NewComment, NewPost, NewUser
// and WooCommerceOrder.
type Event interface {
	Kind() EventKind
	Validate() error
}

var (
	_ Event = (*OutgoingEmail)(nil)
	_ Event = (*NewComment)(nil)
	_ Event = (*NewPost)(nil)
	_ Event = (*NewUser)(nil)
	_ Event = (*WooCommerceOrder)(nil)
)

type OutgoingEmail struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

func (*OutgoingEmail) Kind() EventKind { return EventOutgoingEmail }

func (e *OutgoingEmail) Validate() error {
	if strings.TrimSpace(e.To) == "" {
		return fmt.Errorf("email: missing recipient: %w", domain.ErrInvalidArgument)
	}
	return nil
}

type NewComment struct {
	PostTitle   string    `json:"post_title"`
	CommentLink string    `json:"comment_link"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Text        string    `json:"text"`
	SpamStatus  string    `json:"spam_status"`
}

func (*NewComment) Kind() EventKind { return EventNewComment }

func (e *NewComment) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("comment: missing date: %w", domain.ErrInvalidArgument)
	}
	return nil
}

func (e *NewComment) IsSpam() bool { return e.SpamStatus == CommentStatusSpam }

type NewPost struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	Excerpt          string `json:"excerpt"`
	Permalink        string `json:"permalink"`
	Shortlink        string `json:"shortlink,omitempty"`
	Category         string `json:"category"`
	PostType         string `json:"post_type"`
	OldStatus        string `json:"old_status"`
	NewStatus        string `json:"new_status"`
	FeaturedImageURL string `json:"featured_image_url,omitempty"`
}

func (*NewPost) Kind() EventKind { return EventNewPost }

func (e *NewPost) Validate() error {
	if e.PostType == "" || e.NewStatus == "" {
		return fmt.Errorf("post: missing post_type or new_status: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// IsFirstPublish is true only for the transition that crosses into the
// publish status; re-saving a published post does not count.
func (e *NewPost) IsFirstPublish() bool {
	return e.NewStatus == PostStatusPublish && e.OldStatus != PostStatusPublish
}

// PostLink prefers the short link when the site provides one.
func (e *NewPost) PostLink() string {
	if e.Shortlink != "" {
		return e.Shortlink
	}
	return e.Permalink
}

type NewUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
}

func (*NewUser) Kind() EventKind { return EventNewUser }
func (*NewUser) Validate() error { return nil }

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	State     string `json:"state"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
}

func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type WooCommerceOrder struct {
	OrderID  int64       `json:"order_id"`
	Items    []OrderItem `json:"items"`
	Total    string      `json:"total"`
	Billing  Address     `json:"billing"`
	Shipping Address     `json:"shipping"`
}

func (*WooCommerceOrder) Kind() EventKind { return EventWooCommerceOrder }

func (e *WooCommerceOrder) Validate() error {
	if len(e.Items) == 0 {
		return fmt.Errorf("order: no items: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// DecodeEvent builds the typed event for kind from a JSON payload and
// validates it before it enters the dispatch core.
func DecodeEvent(kind EventKind, payload []byte) (Event, error) {
	var ev Event
	switch kind {
	case EventOutgoingEmail:
		ev = &OutgoingEmail{}
	case EventNewComment:
		ev = &NewComment{}
	case EventNewPost:
		ev = &NewPost{}
	case EventNewUser:
		ev = &NewUser{}
	case EventWooCommerceOrder:
		ev = &WooCommerceOrder{}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, kind)
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, ev); err != nil {
			return nil, fmt.Errorf("decode %s event: %v: %w", kind, err, domain.ErrInvalidArgument)
		}
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}
