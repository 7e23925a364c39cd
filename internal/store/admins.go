package store

import "context"

// IsAdmin reports whether userID is an active admin or super_admin.
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM admin_users
			WHERE user_id = $1 AND is_active AND role IN ('admin', 'super_admin')
		)`,
		userID,
	).Scan(&ok)
	return ok, err
}

// GrantAdmin upserts an active admin row for userID.
func (s *Store) GrantAdmin(ctx context.Context, userID, email string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO admin_users (user_id, email, role, is_active)
		VALUES ($1, $2, 'admin', true)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, is_active = true`,
		userID, email,
	)
	return err
}
