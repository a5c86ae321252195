package models

type Challenge struct {
	ID   *ID     `json:"id"`
	Name *string `json:"name"`
}
