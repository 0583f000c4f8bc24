package authgw

import (
	"context"
	"database/sql"
	"fmt"
)

// User はユーザーストアに保存されるユーザーレコード。
type User struct {
	// ID はユーザーの一意識別子（UUID）。
	ID string
	// Username はユーザー名。システム内で一意。
	Username string
	// Email はメールアドレス。システム内で一意。
	Email string
	// PasswordHash はbcryptでハッシュ化されたパスワード。
	PasswordHash string
	// Active はユーザーが有効かどうか。
	Active bool
	// Roles は割り当てられたロール名の順序付きリスト。最低1つ持つ。
	Roles []string
}

// Role はロールレコード。
type Role struct {
	// ID はロールの一意識別子。
	ID int64
	// Name はロール名（例: USER, ADMIN）。
	Name string
}

// userStore はSQLiteベースのユーザー・ロール永続化層。
type userStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// newUserStore はユーザーストアを生成する。
func newUserStore(db *sql.DB) *userStore {
	return &userStore{db: db}
}

// FindByUsername はユーザー名でユーザーを検索する。
// ロールは割り当て順に読み込む。該当がない場合はsql.ErrNoRowsを返す。
func (s *userStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	user := &User{}
	var active int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, active FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &active)
	if err != nil {
		return nil, err
	}
	user.Active = active != 0

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY ur.position`,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("ロールの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	user.Roles = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ロールの読み取りに失敗: %w", err)
		}
		user.Roles = append(user.Roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ロールの走査に失敗: %w", err)
	}
	return user, nil
}

// FindRoleByName はロール名でロールを検索する。
// 該当がない場合はsql.ErrNoRowsを返す。
func (s *userStore) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	role := &Role{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM roles WHERE name = ?", name,
	).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// CreateUser はユーザーとロール割り当てをトランザクション内で保存する。
func (s *userStore) CreateUser(ctx context.Context, user *User, roleIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	active := 0
	if user.Active {
		active = 1
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, active) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, active,
	); err != nil {
		return fmt.Errorf("ユーザーの保存に失敗: %w", err)
	}

	for i, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_roles (user_id, role_id, position) VALUES (?, ?, ?)",
			user.ID, roleID, i,
		); err != nil {
			return fmt.Errorf("ロール割り当ての保存に失敗: %w", err)
		}
	}

	return tx.Commit()
}
