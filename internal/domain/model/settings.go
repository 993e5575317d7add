package model

import (
	"net/mail"
	"strings"
)

// Settings is the immutable configuration snapshot consumed by a single
// dispatch. It mirrors the plugin option set stored by the host site.
type Settings struct {
	SiteName string `json:"site_name" yaml:"site_name"`
	SiteURL  string `json:"site_url" yaml:"site_url"`

	ChatID   string `json:"chat_id" yaml:"chat_id"`
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token"`

	MatchEmails           []string `json:"match_emails" yaml:"match_emails"`
	DisplayRecipientEmail bool     `json:"display_recipient_email" yaml:"display_recipient_email"`
	SendEmailBody         bool     `json:"send_email_body" yaml:"send_email_body"`

	EmailNotification      bool `json:"email_notification" yaml:"email_notification"`
	NewCommentNotification bool `json:"new_comment_notification" yaml:"new_comment_notification"`
	NewPostNotification    bool `json:"new_post_notification" yaml:"new_post_notification"`
	NewUserNotification    bool `json:"new_user_notification" yaml:"new_user_notification"`
	// IsWooCommerceOnly doubles as the switch for WooCommerce order notifications.
	IsWooCommerceOnly   bool `json:"is_woocommerce_only" yaml:"is_woocommerce_only"`
	IncludeShippingInfo bool `json:"include_shipping_info" yaml:"include_shipping_info"`
	IncludeBillingInfo  bool `json:"include_billing_info" yaml:"include_billing_info"`

	SendToChannelEnable         bool     `json:"send_to_channel_enable" yaml:"send_to_channel_enable"`
	ChannelUsername             string   `json:"channel_username" yaml:"channel_username"`
	ChannelNotificationTemplate string   `json:"channel_notification_template" yaml:"channel_notification_template"`
	ChannelFeaturedImageEnable  bool     `json:"channel_featured_image_enable" yaml:"channel_featured_image_enable"`
	ChannelPostTypes            []string `json:"channel_post_types" yaml:"channel_post_types"`
}

// Clone returns a deep copy so callers can derive a snapshot without
// touching the original.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	cp := *s
	cp.MatchEmails = append([]string(nil), s.MatchEmails...)
	cp.ChannelPostTypes = append([]string(nil), s.ChannelPostTypes...)
	return &cp
}

func (s *Settings) HasBotToken() bool { return strings.TrimSpace(s.BotToken) != "" }

// AllowsChannelPostType reports whether posts of the given type may be
// published to the channel.
func (s *Settings) AllowsChannelPostType(postType string) bool {
	for _, t := range s.ChannelPostTypes {
		if t == postType {
			return true
		}
	}
	return false
}

// SanitizeSettings trims free-text fields and keeps only syntactically
// valid addresses in MatchEmails, in their original order.
func SanitizeSettings(in *Settings) *Settings {
	out := in.Clone()
	if out == nil {
		return &Settings{}
	}
	out.ChatID = strings.TrimSpace(out.ChatID)
	out.BotToken = strings.TrimSpace(out.BotToken)
	out.ChannelUsername = strings.TrimSpace(out.ChannelUsername)
	out.SiteName = strings.TrimSpace(out.SiteName)
	out.SiteURL = strings.TrimSpace(out.SiteURL)
	out.MatchEmails = SanitizeEmails(in.MatchEmails)

	types := out.ChannelPostTypes[:0]
	for _, t := range out.ChannelPostTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	out.ChannelPostTypes = types
	return out
}

// SanitizeEmails accepts entries that may themselves be comma separated
// lists, as the settings form submits them.
func SanitizeEmails(entries []string) []string {
	var out []string
	for _, entry := range entries {
		for _, e := range strings.Split(entry, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			addr, err := mail.ParseAddress(e)
			if err != nil || addr.Address != e {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}
