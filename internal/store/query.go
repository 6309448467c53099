package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-api/internal/birthday"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// Page selects a slice of a sorted result.
type Page struct {
	Limit  int
	Offset int
}

// Order determines the sorting of a contact listing. The zero value sorts by id, ascending.
type Order struct {
	Column     string
	Descending bool
}

// OrderColumns are the columns a listing can be sorted by.
var OrderColumns = []string{"id", "first_name", "last_name", "email", "phone", "birth_date", "created_at"}

// IsOrderColumn reports whether the listing can be sorted by the column.
func IsOrderColumn(column string) bool {
	for _, c := range OrderColumns {
		if c == column {
			return true
		}
	}
	return false
}

// likeEscaper makes the LIKE wildcards of a search string match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns the LIKE pattern matching all values that contain s, ignoring case.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// containsCondition returns the condition that matches a column against a containsPattern. Both
// sides are lowercased and compared binary, so accents are significant but case is not.
func containsCondition(column string) string {
	return "LOWER(" + column + ") COLLATE utf8mb4_bin LIKE ?"
}

// filterClause returns the WHERE clause and its arguments for the criteria. It returns an
// empty clause if no criterion is set.
func filterClause(criteria model.Criteria) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if criteria.FirstName != "" {
		conditions = append(conditions, containsCondition("first_name"))
		args = append(args, containsPattern(criteria.FirstName))
	}
	if criteria.LastName != "" {
		conditions = append(conditions, containsCondition("last_name"))
		args = append(args, containsPattern(criteria.LastName))
	}
	if criteria.Email != "" {
		conditions = append(conditions, containsCondition("email"))
		args = append(args, containsPattern(criteria.Email))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause returns the ORDER BY clause. Rows with equal values are sorted by id so that the
// pages of a listing do not overlap.
func orderClause(order Order) (string, error) {
	column := order.Column
	if column == "" {
		column = "id"
	}
	if !IsOrderColumn(column) {
		return "", fmt.Errorf("invalid order column %q", column)
	}
	direction := "ASC"
	if order.Descending {
		direction = "DESC"
	}
	if column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", direction), nil
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, direction, direction), nil
}

// ListFiltered returns the contacts matching all given criteria. Every criterion must be
// contained in the corresponding field, ignoring case; empty criteria match every contact.
func (s *Store) ListFiltered(ctx context.Context, criteria model.Criteria, order Order, page Page) ([]model.Contact, error) {
	where, args := filterClause(criteria)
	orderBy, err := orderClause(order)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + contactColumns + " FROM contacts" + where + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	return contacts, nil
}

// ListUpcomingBirthdays returns the contacts whose birthday lies within the upcoming-birthday
// window that starts today, sorted by birth date.
func (s *Store) ListUpcomingBirthdays(ctx context.Context, page Page) ([]model.Contact, error) {
	window := birthday.NewWindow(s.now().In(s.location), s.birthdayDays)
	query, args, err := sqlx.In(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE birth_date IS NOT NULL
			AND MONTH(birth_date) * 100 + DAY(birth_date) IN (?)
		ORDER BY birth_date ASC, id ASC
		LIMIT ?
		OFFSET ?`, window.Keys(), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("expand birthday keys: %w", err)
	}

	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select upcoming birthdays: %w", err)
	}
	return contacts, nil
}
