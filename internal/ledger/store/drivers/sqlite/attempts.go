package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/statelock/codeledger/internal/ledger/domain"
)

type attemptsRepo struct {
	db dbtx
}

func (r *attemptsRepo) Create(ctx context.Context, a domain.LoginAttempt) error {
	var userID sql.NullString
	if a.UserID != nil {
		userID = sql.NullString{String: *a.UserID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_attempts (id, attempt_type, success, error_message, user_id, ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		a.ID, a.AttemptType, a.Success, a.ErrorMessage, userID, a.IP)
	return mapWriteErr(err)
}

func (r *attemptsRepo) ListRecent(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, attempt_type, success, error_message, user_id, ip, created_at
		 FROM login_attempts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LoginAttempt
	for rows.Next() {
		var (
			a      domain.LoginAttempt
			userID sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.AttemptType, &a.Success, &a.ErrorMessage,
			&userID, &a.IP, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = mapNullStringPtr(userID)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	// datetime(N, 'unixepoch') renders the same format CURRENT_TIMESTAMP
	// stores, so the string comparison is well defined.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE created_at < datetime(?, 'unixepoch')`,
		cutoff.UTC().Unix())
	if err != nil {
		return 0, mapBusy(err)
	}
	return res.RowsAffected()
}
