package model

import "time"

// Contact is the data structure for a person that we know.
// Email, BirthDate and Additionally are optional at the database level.
type Contact struct {
	Id           int64     `json:"id"           db:"id"`
	FirstName    string    `json:"first_name"   db:"first_name"`
	LastName     string    `json:"last_name"    db:"last_name"`
	Email        *string   `json:"email"        db:"email"`
	Phone        string    `json:"phone"        db:"phone"`
	BirthDate    *Date     `json:"birth_date"   db:"birth_date"`
	Additionally *string   `json:"additionally" db:"additionally"`
	CreatedAt    time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"   db:"updated_at"`
}

// NewContact holds the values of a contact that does not exist yet. The id and the timestamps
// are assigned by the store.
type NewContact struct {
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	Email        *string `db:"email"`
	Phone        string  `db:"phone"`
	BirthDate    *Date   `db:"birth_date"`
	Additionally *string `db:"additionally"`
}

// Criteria restricts a contact listing. Every non-empty field must be contained in the
// corresponding contact field, ignoring case. Empty fields impose no restriction.
type Criteria struct {
	FirstName string
	LastName  string
	Email     string
}

// IsEmpty reports whether no criterion has been supplied.
func (c Criteria) IsEmpty() bool {
	return c.FirstName == "" && c.LastName == "" && c.Email == ""
}
