package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/event-analytics/internal/category"
	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/model"
)

// progressEvery controls how often insert progress is logged.
const progressEvery = 100

// domainExpr extracts the lower-cased email domain in SQL; it must agree
// with category.Domain.  The binary collation keeps domains that the table's
// accent-insensitive collation would equate ("ucdavís.edu", "ucdavis.edu")
// apart, both in SELECT DISTINCT and in the CASE arms.
const domainExpr = "LOWER(SUBSTRING_INDEX(ticket_email, '@', -1)) COLLATE utf8mb4_bin"

// AttendeeRepo writes the attendees table.
type AttendeeRepo struct {
	db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the given database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

var insertAttendeeSQL = fmt.Sprintf("INSERT INTO attendees (%s) VALUES (%s)",
	strings.Join(model.AttendeeColumns, ", "),
	strings.TrimSuffix(strings.Repeat("?, ", len(model.AttendeeColumns)), ", "))

// ReplaceAll discards every stored attendee, inserts the batch row by row
// and classifies the new rows, all in one transaction.  DELETE is used
// instead of TRUNCATE because MySQL commits implicitly on TRUNCATE, which
// would leave an empty table behind a failed run.  Any error rolls the
// transaction back and nothing from the run is visible.
func (r *AttendeeRepo) ReplaceAll(ctx context.Context, attendees []model.Attendee, classify func(string) string) (n int, err error) {
	if classify == nil {
		return 0, ErrNilClassifier
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM attendees"); err != nil {
		return 0, fmt.Errorf("clear attendees: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertAttendeeSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range attendees {
		if _, err = stmt.ExecContext(ctx, attendees[i].Args()...); err != nil {
			return 0, fmt.Errorf("insert attendee %d: %w", i, err)
		}
		n++
		if n%progressEvery == 0 {
			logging.Debug().Int("inserted", n).Msg("inserting attendees")
		}
	}

	if err = classifyTx(ctx, tx, classify); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// classifyTx sets attendees.university for every row with a single UPDATE.
// Classification depends only on the email domain, so the distinct domains
// are classified in Go and folded into one CASE expression.
func classifyTx(ctx context.Context, tx *sql.Tx, classify func(string) string) error {
	rows, err := tx.QueryContext(ctx, "SELECT DISTINCT "+domainExpr+" FROM attendees")
	if err != nil {
		return fmt.Errorf("list email domains: %w", err)
	}
	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return fmt.Errorf("scan email domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("list email domains: %w", err)
	}
	rows.Close()
	if len(domains) == 0 {
		return nil
	}

	q, args := classifyUpdate(domains, classify)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("classify universities: %w", err)
	}
	return nil
}

func classifyUpdate(domains []string, classify func(string) string) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, 2*len(domains)+1)
	b.WriteString("UPDATE attendees SET university = CASE ")
	b.WriteString(domainExpr)
	for _, d := range domains {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, d, classify(d))
	}
	b.WriteString(" ELSE ? END")
	args = append(args, category.NonUniversity)
	return b.String(), args
}

// Count returns the number of stored attendees.
func (r *AttendeeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendees").Scan(&n)
	return n, err
}
