package model

import "time"

type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"user_id"`
}

// TodoUpdate carries the fields of a partial update. Nil means the field
// was not provided and must be left untouched.
type TodoUpdate struct {
	Text    *string `json:"text"`
	Status  *string `json:"status"`
	Details *string `json:"details"`
}

func (u TodoUpdate) Empty() bool {
	return u.Text == nil && u.Status == nil && u.Details == nil
}
