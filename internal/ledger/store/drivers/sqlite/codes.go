package sqlite

import (
	"context"

	"github.com/statelock/codeledger/internal/ledger/domain"
)

type codesRepo struct {
	db dbtx
}

func (r *codesRepo) Get(ctx context.Context, userID string) (domain.CodeRecord, error) {
	var c domain.CodeRecord
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, code, created_at, updated_at
		 FROM user_codes WHERE user_id = ?`, userID)
	if err := row.Scan(&c.UserID, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.CodeRecord{}, mapNotFound(err)
	}
	return c, nil
}

func (r *codesRepo) Upsert(ctx context.Context, userID string, code string) error {
	// created_at survives rotations; only the code and updated_at change.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_codes (user_id, code, created_at, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE SET
			code = excluded.code,
			updated_at = CURRENT_TIMESTAMP`,
		userID, code)
	return mapWriteErr(err)
}
