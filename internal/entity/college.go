package entity

import "time"

// College represents an owning college for data transfer between layers.
type College struct {
	ID          int       `json:"id"`
	CollegeName string    `json:"college_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     *string   `json:"address,omitempty"`
	HeadName    string    `json:"head_name"`
	HeadPhone   string    `json:"head_phone"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollegeUpdate carries a partial update. Nil fields are left untouched.
type CollegeUpdate struct {
	CollegeName *string
	Email       *string
	Phone       *string
	Address     *string
	HeadName    *string
	HeadPhone   *string
}

// IsEmpty reports whether the update carries no fields.
func (u CollegeUpdate) IsEmpty() bool {
	return u.CollegeName == nil && u.Email == nil && u.Phone == nil &&
		u.Address == nil && u.HeadName == nil && u.HeadPhone == nil
}
