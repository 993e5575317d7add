package usecase

import (
	"strings"

	"telefication/internal/domain/model"
)

// ShouldDispatch decides whether ev produces a personal notification.
func ShouldDispatch(ev model.Event, s *model.Settings) bool {
	if ev == nil || s == nil {
		return false
	}
	switch e := ev.(type) {
	case *model.OutgoingEmail:
		return s.EmailNotification && matchesRecipient(e.To, s.MatchEmails)
	case *model.NewComment:
		return s.NewCommentNotification && !e.IsSpam()
	case *model.NewPost:
		return s.NewPostNotification && e.IsFirstPublish() && e.PostType == model.PostTypePost
	case *model.NewUser:
		return s.NewUserNotification
	case *model.WooCommerceOrder:
		return s.IsWooCommerceOnly
	default:
		return false
	}
}

// ShouldPostToChannel is the channel gate. It is independent of
// ShouldDispatch: a post may trigger neither, either or both.
func ShouldPostToChannel(post *model.NewPost, s *model.Settings) bool {
	if post == nil || s == nil {
		return false
	}
	return post.IsFirstPublish() &&
		s.SendToChannelEnable &&
		strings.TrimSpace(s.ChannelUsername) != "" &&
		s.AllowsChannelPostType(post.PostType)
}

// An empty allow-list matches every recipient.
func matchesRecipient(to string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	to = strings.TrimSpace(to)
	for _, a := range allow {
		if strings.TrimSpace(a) == to {
			return true
		}
	}
	return false
}
