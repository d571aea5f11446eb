package session

import "strings"

// DefaultHistoryLimit bounds a session's history; the oldest entries go first.
const DefaultHistoryLimit = 100

// History is the ordered list of passwords generated in one session.
type History []string

// Append returns h with password added at the end. When limit is positive and
// the history is full, the oldest entries are dropped to make room.
func (h History) Append(password string, limit int) History {
	next := make(History, 0, len(h)+1)
	next = append(next, h...)
	next = append(next, password)
	if limit > 0 && len(next) > limit {
		next = next[len(next)-limit:]
	}
	return next
}

// Clear returns an empty history.
func (h History) Clear() History {
	return History{}
}

// Export joins the entries with newlines in insertion order.
func (h History) Export() []byte {
	return []byte(strings.Join(h, "\n"))
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h)
}
