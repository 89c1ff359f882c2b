// Package view renders the pipeline board. Every function here is pure:
// it takes the styles and a small state struct and returns a string, so the
// board model stays the only owner of state and the renders are testable
// without a terminal.
//
// The pieces are composed top to bottom by the model:
//
//   - [RenderHeader]: title, viewer and the notification badge
//   - [RenderBanner]: the single error banner after a failed move
//   - [RenderKPIStrip]: per-stage count, revenue and margin plus totals
//   - [RenderColumn]: one stage column with its cards and expand control
//   - [RenderDetail]: the deal detail pane opened from a card
//   - [RenderNotifications]: the unread notification list
//   - [RenderLoadError]: the blocking state when the first load fails
package view
