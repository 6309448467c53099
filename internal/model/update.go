package model

// ContactUpdate is the set of values to be changed on an existing contact. A nil field, or a
// Nullable that is not Set, means that the stored value is kept. A Nullable that is Set but not
// Valid clears the stored value.
type ContactUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	BirthDate    Nullable[Date]
	Additionally Nullable[string]
}

// Column is a database column together with the value it shall be set to.
type Column struct {
	Name  string
	Value interface{}
}

// Columns returns the supplied values in a fixed column order.
func (u ContactUpdate) Columns() []Column {
	var columns []Column
	if u.FirstName != nil {
		columns = append(columns, Column{"first_name", *u.FirstName})
	}
	if u.LastName != nil {
		columns = append(columns, Column{"last_name", *u.LastName})
	}
	if u.Email != nil {
		columns = append(columns, Column{"email", *u.Email})
	}
	if u.Phone != nil {
		columns = append(columns, Column{"phone", *u.Phone})
	}
	if u.BirthDate.Set {
		columns = append(columns, Column{"birth_date", u.BirthDate.Interface()})
	}
	if u.Additionally.Set {
		columns = append(columns, Column{"additionally", u.Additionally.Interface()})
	}
	return columns
}

// IsEmpty reports whether the update would not change anything.
func (u ContactUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}

// ApplyTo merges the supplied values into the contact. Id and timestamps are left alone.
func (u ContactUpdate) ApplyTo(c *Contact) {
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	if u.Email != nil {
		email := *u.Email
		c.Email = &email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.BirthDate.Set {
		c.BirthDate = u.BirthDate.Ptr()
	}
	if u.Additionally.Set {
		c.Additionally = u.Additionally.Ptr()
	}
}
