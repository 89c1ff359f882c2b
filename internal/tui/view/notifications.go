package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/util"
)

// NotificationsState holds the notification list.
type NotificationsState struct {
	Unread []deal.Notification
	Cursor int
	Width  int
	Now    time.Time
}

// RenderNotifications renders the unread list, newest first as delivered.
func RenderNotifications(s *styles.Styles, st NotificationsState) string {
	inner := max(st.Width-s.Detail.GetHorizontalFrameSize(), 20)

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Notifications (%d)", len(st.Unread))))
	b.WriteString("\n\n")
	if len(st.Unread) == 0 {
		b.WriteString(s.Muted.Render("nothing new"))
	}
	for i, n := range st.Unread {
		if i > 0 {
			b.WriteString("\n")
		}
		icon := "•"
		if n.Kind == deal.KindQuotationApproval {
			icon = "⧗"
		}
		line := util.SplitLeftRight(
			fmt.Sprintf("%s %s", icon, n.Message),
			Ago(st.Now, n.CreatedAt),
			inner-2,
		)
		if i == st.Cursor {
			b.WriteString(s.CardFocused.Render("› " + line))
		} else {
			b.WriteString(s.Text.Render("  " + line))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("enter open · m mark read · M mark all · esc close"))

	return s.Detail.Width(inner + s.Detail.GetHorizontalPadding()).Render(b.String())
}

// Ago formats the age of t relative to now in a compact form.
func Ago(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
