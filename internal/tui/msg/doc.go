// Package msg defines the message types and command factories of the
// board's Bubbletea event loop.
//
// Every remote call the board makes runs as a [tea.Cmd] off the loop and
// re-enters as one of the messages below, so the board state itself is only
// touched from Update:
//
//   - [DealsLoadedMsg]: a fetched deal list tagged with its reload ticket
//   - [MoveSettledMsg]: the outcome of an optimistic stage change
//   - [ScrollToDealMsg]: the delayed scroll to the last viewed deal
//   - [NotificationsMsg]: the poller's current unread list
//   - [ViewStateChangedMsg]: the last viewed deal changed in another process
package msg
