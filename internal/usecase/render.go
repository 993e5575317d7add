package usecase

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
)

const (
	separator   = "-----"
	commentTime = "2006-01-02 15:04:05"
)

// channelTags are the inline tags Telegram accepts in html parse mode and
// that survive in channel placeholders.
var channelTags = []string{"b", "i", "a", "code", "pre"}

// Renderer turns events into message bodies. It holds no mutable state, so
// rendering the same event with the same settings is byte-identical.
type Renderer struct {
	tr   adapter.Translator
	conv adapter.TextConverter
}

func NewRenderer(tr adapter.Translator, conv adapter.TextConverter) *Renderer {
	return &Renderer{tr: tr, conv: conv}
}

// Render builds the personal notification for ev.
func (r *Renderer) Render(ev model.Event, s *model.Settings) string {
	switch e := ev.(type) {
	case *model.OutgoingEmail:
		return r.renderEmail(e, s)
	case *model.NewComment:
		return r.renderComment(e, s)
	case *model.NewPost:
		return r.renderPost(e, s)
	case *model.NewUser:
		return r.renderUser(s)
	case *model.WooCommerceOrder:
		return r.renderOrder(e, s)
	default:
		return ""
	}
}

// RenderChannelPost fills the channel template with the post fields. Unknown
// placeholders are kept verbatim; a missing template yields "".
func (r *Renderer) RenderChannelPost(post *model.NewPost, s *model.Settings) string {
	if post == nil || s == nil || s.ChannelNotificationTemplate == "" {
		return ""
	}
	tmpl, err := url.QueryUnescape(s.ChannelNotificationTemplate)
	if err != nil {
		tmpl = s.ChannelNotificationTemplate
	}
	strip := func(v string) string { return r.conv.StripTags(v, channelTags...) }
	rep := strings.NewReplacer(
		"{title}", strip(post.Title),
		"{content}", strip(post.Content),
		"{excerpt}", strip(post.Excerpt),
		"{post_link}", strip(post.PostLink()),
		"{post_category}", strip(post.Category),
		"{post_type}", strip(post.PostType),
	)
	return rep.Replace(tmpl)
}

func (r *Renderer) renderEmail(e *model.OutgoingEmail, s *model.Settings) string {
	site := html.EscapeString(s.SiteName) + ":"
	if s.DisplayRecipientEmail && e.To != "" {
		site += " " + html.EscapeString(e.To)
	}
	var body string
	if s.SendEmailBody {
		body = strings.TrimSpace(r.conv.ToText(e.BodyHTML))
	}
	return layout(site, html.EscapeString(e.Subject), body, s.SiteURL)
}

func (r *Renderer) renderComment(e *model.NewComment, s *model.Settings) string {
	link := `<a href="` + html.EscapeString(e.CommentLink) + `">` + html.EscapeString(e.PostTitle) + `</a>`
	var body strings.Builder
	body.WriteString(r.tr.T("comment_by", "<b>"+html.EscapeString(e.Author)+"</b>", link))
	body.WriteString("\n<i>")
	body.WriteString(e.Date.Format(commentTime))
	body.WriteString("</i>\n\n")
	body.WriteString(html.EscapeString(e.Text))
	return r.frame(s, r.tr.T("new_comment"), body.String())
}

func (r *Renderer) renderPost(e *model.NewPost, s *model.Settings) string {
	body := html.EscapeString(e.Title) + "\n\n" + r.tr.T("post_url", html.EscapeString(e.Permalink))
	return r.frame(s, r.tr.T("new_post"), body)
}

func (r *Renderer) renderUser(s *model.Settings) string {
	return r.frame(s, r.tr.T("new_user"), "")
}

func (r *Renderer) renderOrder(e *model.WooCommerceOrder, s *model.Settings) string {
	var b strings.Builder
	for _, it := range e.Items {
		b.WriteString(html.EscapeString(it.Name))
		b.WriteString(" * ")
		b.WriteString(strconv.Itoa(it.Quantity))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(r.tr.T("total", html.EscapeString(e.Total)))
	if s.IncludeShippingInfo {
		b.WriteString("\n\n")
		b.WriteString(r.addressBlock("shipping_info", e.Shipping, false))
	}
	if s.IncludeBillingInfo {
		b.WriteString("\n\n")
		b.WriteString(r.addressBlock("billing_info", e.Billing, true))
	}
	return r.frame(s, r.tr.T("new_order"), b.String())
}

func (r *Renderer) addressBlock(titleKey string, a model.Address, withContact bool) string {
	esc := html.EscapeString
	lines := []string{
		r.tr.T(titleKey),
		separator,
		r.tr.T("name", esc(a.FullName())),
	}
	if withContact {
		lines = append(lines, r.tr.T("email", esc(a.Email)), r.tr.T("phone", esc(a.Phone)))
	}
	lines = append(lines,
		r.tr.T("country", esc(a.Country)),
		r.tr.T("city", esc(a.City)),
		r.tr.T("postcode", esc(a.Postcode)),
		r.tr.T("state", esc(a.State)),
		r.tr.T("address_1", esc(a.Address1)),
		r.tr.T("address_2", esc(a.Address2)),
	)
	return strings.Join(lines, "\n")
}

// frame wraps header and body in the shared layout.
func (r *Renderer) frame(s *model.Settings, header, body string) string {
	return layout(html.EscapeString(s.SiteName)+":", header, body, s.SiteURL)
}

// layout is "<site line>\n\n<header>\n-----\n\n<body>\n\n<site url>". An
// empty body drops the separator; the site URL footer is always present.
func layout(siteLine, header, body, siteURL string) string {
	var b strings.Builder
	b.WriteString(siteLine)
	b.WriteString("\n\n")
	b.WriteString(header)
	if body != "" {
		b.WriteString("\n" + separator + "\n\n")
		b.WriteString(body)
	}
	b.WriteString("\n\n")
	b.WriteString(html.EscapeString(siteURL))
	return b.String()
}
