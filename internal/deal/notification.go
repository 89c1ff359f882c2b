package deal

import "time"

// NotificationKind classifies pending notifications.
type NotificationKind string

const (
	KindQuotationApproval NotificationKind = "quotation_approval"
	KindStageChange       NotificationKind = "stage_change"
)

// Notification is an unread notice about a deal. Read notifications are
// never returned by the remote, so presence implies unread.
type Notification struct {
	ID        string           `json:"id"`
	DealID    string           `json:"dealId"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Customer  string           `json:"customer,omitempty"`
	Stage     Stage            `json:"stage,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// PendingApprovals counts the quotation approval requests in notes.
func PendingApprovals(notes []Notification) int {
	n := 0
	for _, note := range notes {
		if note.Kind == KindQuotationApproval {
			n++
		}
	}
	return n
}
