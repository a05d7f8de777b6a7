package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SetAccessCode stores (or rotates) the code of one kind for a scope.
// Rotating invalidates the previous code immediately.
func (s *Store) SetAccessCode(scope, kind, code string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO access_codes (scope, kind, code, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, kind) DO UPDATE SET code = excluded.code, created_at = excluded.created_at`,
		scope, kind, code, now,
	)
	if err != nil {
		return fmt.Errorf("set %s code for %s: %w", kind, scope, err)
	}
	return nil
}

// GetAccessCodeByCode looks up a code string. Returns nil without error
// when the code is unknown.
func (s *Store) GetAccessCodeByCode(code string) (*AccessCode, error) {
	c := &AccessCode{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT scope, kind, code, created_at FROM access_codes WHERE code = ?`, code,
	).Scan(&c.Scope, &c.Kind, &c.Code, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup code: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

// GetScopeCodes returns the codes registered for a scope, keyed by kind.
func (s *Store) GetScopeCodes(scope string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT kind, code FROM access_codes WHERE scope = ?`, scope)
	if err != nil {
		return nil, fmt.Errorf("list codes for %s: %w", scope, err)
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var kind, code string
		if err := rows.Scan(&kind, &code); err != nil {
			return nil, err
		}
		codes[kind] = code
	}
	return codes, rows.Err()
}
