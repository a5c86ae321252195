package models

type Team struct {
	ID     *ID     `json:"id"`
	Name   *string `json:"name"`
	Banned *Flag   `json:"banned"`
}

// Eligible reports whether the team may be credited with a solve.
func (t Team) Eligible() bool {
	if t.ID == nil || t.Banned == nil {
		return false
	}
	return !bool(*t.Banned)
}
