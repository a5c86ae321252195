package models

type User struct {
	ID     *ID     `json:"id"`
	Name   *string `json:"name"`
	Banned *Flag   `json:"banned"`
	Hidden *Flag   `json:"hidden"`
	TeamID *ID     `json:"team_id"`
}

// Eligible reports whether the user may win or appear on a roster.
// Users missing the id or either status column fail closed.
func (u User) Eligible() bool {
	if u.ID == nil || u.Banned == nil || u.Hidden == nil {
		return false
	}
	return !bool(*u.Banned) && !bool(*u.Hidden)
}
