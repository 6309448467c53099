package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when no contact has the requested id.
	ErrNotFound = errors.New("contact not found")

	// ErrConstraintViolation is returned when a write collides with the email or phone of
	// another contact.
	ErrConstraintViolation = errors.New("email or phone already in use")
)

// MySQL error numbers the store reacts to.
const (
	mysqlDuplicateEntry        = 1062
	mysqlDuplicateEntryWithKey = 1586
)

// classify maps driver errors onto the store's error values. Other errors are returned as they
// are.
func classify(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry, mysqlDuplicateEntryWithKey:
			return fmt.Errorf("%w: %s", ErrConstraintViolation, mysqlErr.Message)
		}
	}
	return err
}
