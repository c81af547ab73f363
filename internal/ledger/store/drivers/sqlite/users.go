package sqlite

import (
	"context"
	"database/sql"

	"github.com/statelock/codeledger/internal/ledger/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, display_name, email, current_code, code_verified,
	code_generated_at, code_verified_at, created_at, updated_at`

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, email, created_at, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		u.ID, u.DisplayName, u.Email)
	return mapWriteErr(err)
}

func (r *usersRepo) SetCurrentCode(ctx context.Context, userID string, code string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET
			current_code = ?,
			code_verified = 0,
			code_generated_at = CURRENT_TIMESTAMP,
			code_verified_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		code, userID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

func (r *usersRepo) MarkCodeVerified(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET
			code_verified = 1,
			code_verified_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

func (r *usersRepo) ListWithCodes(ctx context.Context) ([]domain.UserCode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.display_name, u.email, c.code, u.code_verified
		 FROM users u
		 JOIN user_codes c ON c.user_id = u.id
		 ORDER BY u.display_name, u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserCode
	for rows.Next() {
		var uc domain.UserCode
		if err := rows.Scan(&uc.UserID, &uc.DisplayName, &uc.Email, &uc.Code, &uc.Verified); err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (domain.UserProfile, error) {
	var (
		u           domain.UserProfile
		currentCode sql.NullString
		generatedAt sql.NullTime
		verifiedAt  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.DisplayName, &u.Email, &currentCode, &u.CodeVerified,
		&generatedAt, &verifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.UserProfile{}, mapNotFound(err)
	}
	u.CurrentCode = mapNullStringPtr(currentCode)
	u.CodeGeneratedAt = mapNullTimePtr(generatedAt)
	u.CodeVerifiedAt = mapNullTimePtr(verifiedAt)
	return u, nil
}

// requireRow turns a zero-row UPDATE into store.ErrNotFound so callers can
// distinguish a missing user from a successful write.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
