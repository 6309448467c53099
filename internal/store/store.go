// Package store keeps the contacts in a MySQL database and answers the queries of the API.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-api/internal/birthday"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// contactColumns lists the columns of the contacts table in the order of model.Contact.
const contactColumns = "id, first_name, last_name, email, phone, birth_date, additionally, created_at, updated_at"

// Store gives access to the contacts table. It is safe for concurrent use.
type Store struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt

	now          func() time.Time
	location     *time.Location
	birthdayDays int
}

// Option changes the behavior of a Store.
type Option func(*Store)

// WithClock sets the function the store asks for the current time. It determines the timestamps
// of contacts and the first day of the upcoming-birthday window.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the time zone in which "today" is determined.
func WithLocation(location *time.Location) Option {
	return func(s *Store) {
		s.location = location
	}
}

// WithBirthdayWindow sets the number of days, including today, that count as upcoming.
func WithBirthdayWindow(days int) Option {
	return func(s *Store) {
		s.birthdayDays = days
	}
}

// insertRow carries the named parameters of the insert statement.
type insertRow struct {
	model.NewContact
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CreateDatabase opens a connection pool to the MySQL database described by the configuration.
func CreateDatabase(cfg config.Database) (*sql.DB, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	sqlDB, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return sqlDB, nil
}

// New wraps the sql database and prepares all statements. The database argument can be a real
// database for production use or a mock database within unit tests.
func New(sqlDB *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:           sqlx.NewDb(sqlDB, "mysql"),
		now:          time.Now,
		location:     time.UTC,
		birthdayDays: birthday.DefaultDays,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (first_name, last_name, email, phone, birth_date, additionally, created_at, updated_at)
		VALUES (:first_name, :last_name, :email, :phone, :birth_date, :additionally, :created_at, :updated_at)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.selectWhereId, err = s.db.Preparex(`
		SELECT ` + contactColumns + ` FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements and the database.
func (s *Store) Close() error {
	return errors.Join(s.insert.Close(), s.selectWhereId.Close(), s.db.Close())
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts a new contact and returns it with its id and timestamps.
func (s *Store) Create(ctx context.Context, nc model.NewContact) (model.Contact, error) {
	now := s.timestamp()
	result, err := s.insert.ExecContext(ctx, insertRow{NewContact: nc, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return model.Contact{
		Id:           id,
		FirstName:    nc.FirstName,
		LastName:     nc.LastName,
		Email:        nc.Email,
		Phone:        nc.Phone,
		BirthDate:    nc.BirthDate,
		Additionally: nc.Additionally,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetByID returns the contact with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (model.Contact, error) {
	var contact model.Contact
	err := s.selectWhereId.GetContext(ctx, &contact, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("select contact %d: %w", id, err)
	}
	return contact, nil
}

// Update changes the supplied fields of the contact with the given id and refreshes its
// updated_at timestamp. It returns the full contact after the update, or ErrNotFound.
func (s *Store) Update(ctx context.Context, id int64, update model.ContactUpdate) (model.Contact, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Contact{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	contact, err := lockContact(ctx, tx, id)
	if err != nil {
		return model.Contact{}, err
	}
	update.ApplyTo(&contact)
	contact.UpdatedAt = s.nextUpdate(contact.UpdatedAt)

	var args []interface{}
	sql := "UPDATE contacts SET "
	for _, column := range update.Columns() {
		sql += column.Name + " = ?, "
		args = append(args, column.Value)
	}
	sql += "updated_at = ? WHERE id = ?"
	args = append(args, contact.UpdatedAt, id)
	if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
		return model.Contact{}, fmt.Errorf("update contact %d: %w", id, classify(err))
	}
	if err := tx.Commit(); err != nil {
		return model.Contact{}, fmt.Errorf("commit update: %w", classify(err))
	}
	return contact, nil
}

// Delete removes the contact with the given id and returns it, or ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) (model.Contact, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Contact{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	contact, err := lockContact(ctx, tx, id)
	if err != nil {
		return model.Contact{}, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id); err != nil {
		return model.Contact{}, fmt.Errorf("delete contact %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Contact{}, fmt.Errorf("commit delete: %w", err)
	}
	return contact, nil
}

// lockContact reads the contact and keeps it locked until the transaction ends.
func lockContact(ctx context.Context, tx *sqlx.Tx, id int64) (model.Contact, error) {
	var contact model.Contact
	err := tx.GetContext(ctx, &contact, "SELECT "+contactColumns+" FROM contacts WHERE id = ? FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("select contact %d: %w", id, err)
	}
	return contact, nil
}

// timestamp returns the current time at the precision of a DATETIME(6) column.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// nextUpdate returns the new updated_at value. It is always later than the previous one, even
// if the clock has not advanced.
func (s *Store) nextUpdate(previous time.Time) time.Time {
	now := s.timestamp()
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}
