package enums

// Action is the enforcement decision attached to a moderation verdict.
// ActionWarning has no detector routed to it today; it stays a legal
// variant for lower-severity categories.
type Action string

const (
	ActionNone    Action = "none"
	ActionWarning Action = "warning"
	ActionBlocked Action = "blocked"
)

func (a Action) Severity() int {
	switch a {
	case ActionBlocked:
		return 3
	case ActionWarning:
		return 2
	}
	return 1
}
