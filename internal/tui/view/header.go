package view

import (
	"fmt"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
	"github.com/pipeboard/pipeboard/internal/util"
)

// HeaderState holds what the header line shows.
type HeaderState struct {
	Viewer           deal.Scope
	Unread           int
	PendingApprovals int
	Committing       int
	Width            int
}

// RenderHeader renders the title line with the viewer and the notification
// badge.
func RenderHeader(s *styles.Styles, st HeaderState) string {
	viewer := string(st.Viewer.Role)
	if st.Viewer.UserID != "" {
		viewer = st.Viewer.UserID + " (" + viewer + ")"
	}
	left := s.Title.Render("Pipeline") + "  " + s.Subtitle.Render(viewer)
	if st.Committing > 0 {
		left += "  " + s.Muted.Render(fmt.Sprintf("saving %d…", st.Committing))
	}

	return util.SplitLeftRight(left, RenderBadge(s, st.Unread, st.PendingApprovals), st.Width)
}

// RenderBadge renders the unread counter. Pending quotation approvals are
// called out separately so an admin sees them at a glance.
func RenderBadge(s *styles.Styles, unread, approvals int) string {
	if unread == 0 {
		return s.Muted.Render("🔔 0")
	}
	badge := s.Badge.Render(fmt.Sprintf("🔔 %d", unread))
	if approvals > 0 {
		badge += " " + s.BadgeWarning.Render(fmt.Sprintf("%d to approve", approvals))
	}
	return badge
}

// RenderBanner renders the error banner, or "" when there is none.
func RenderBanner(s *styles.Styles, message string, width int) string {
	if message == "" {
		return ""
	}
	return s.Banner.Render(util.TruncateANSI("✗ "+message, max(width-s.Banner.GetHorizontalFrameSize(), 1)))
}

// RenderLoadError renders the blocking state shown when the deals could not
// be loaded and nothing is on the board yet.
func RenderLoadError(s *styles.Styles, err error, width int) string {
	msg := "Could not load the pipeline."
	if err != nil {
		msg += "\n\n" + err.Error()
	}
	msg += "\n\n" + s.Muted.Render("press r to retry, q to quit")
	return s.BlockingErr.Width(max(width-s.BlockingErr.GetHorizontalBorderSize(), 20)).Render(msg)
}
