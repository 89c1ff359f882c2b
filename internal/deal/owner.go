package deal

import "strings"

// OwnerUnavailable is shown when no owner source is populated.
const OwnerUnavailable = "Owner N/A"

// ResolveOwner produces the owner label for a deal. Sources are tried in
// order: the manager name, the assigned owner's full name then username,
// the salesperson's full name then username. Candidates are trimmed before
// the blank check.
func ResolveOwner(d Deal) string {
	if name := strings.TrimSpace(d.ManagerName); name != "" {
		return name
	}
	if name := refName(d.AssignedOwner); name != "" {
		return name
	}
	if name := refName(d.Salesperson); name != "" {
		return name
	}
	return OwnerUnavailable
}

func refName(ref *PersonRef) string {
	if ref == nil {
		return ""
	}
	first := strings.TrimSpace(ref.FirstName)
	last := strings.TrimSpace(ref.LastName)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	return strings.TrimSpace(ref.Username)
}
