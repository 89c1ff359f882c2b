package cmd

import (
	"github.com/pipeboard/pipeboard/internal/event"
	"github.com/pipeboard/pipeboard/internal/logging"
)

// subscribeAudit writes every board event to the "audit" component of the
// log, which `pipeboard logs --component audit` reads back. Rejected moves
// and discarded reloads are logged at WARN so they show at the default level.
func subscribeAudit(bus *event.Bus, logger *logging.Logger) string {
	audit := logger.WithComponent("audit")
	return bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case event.MoveCommittingEvent:
			audit.Info("move committing", "move_id", ev.MoveID, "deal_id", ev.DealID,
				"from", ev.From, "to", ev.To)
		case event.MoveConfirmedEvent:
			audit.Info("move confirmed", "move_id", ev.MoveID, "deal_id", ev.DealID, "stage", ev.Stage)
		case event.MoveRolledBackEvent:
			audit.Warn("move rolled back", "move_id", ev.MoveID, "deal_id", ev.DealID, "error", ev.Err)
		case event.DealsReloadedEvent:
			audit.Info("deals reloaded", "count", ev.Count)
		case event.ReloadDeferredEvent:
			audit.Info("reload deferred", "committing", ev.Committing)
		case event.ReloadStaleEvent:
			audit.Warn("reload discarded", "ticket", ev.Ticket, "generation", ev.Generation)
		case event.DealSelectedEvent:
			audit.Debug("deal selected", "deal_id", ev.DealID)
		default:
			audit.Debug("board event", "event_type", e.EventType())
		}
	})
}
