package authgw

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。ユーザーは複数ロールを順序付きで持つ。
// デフォルトロール（USER・ADMIN）はプロビジョニングとしてここで
// 投入する。登録処理はUSERロールの存在を前提とし、欠けていれば
// サーバー設定不備として失敗する。
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS roles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    role_id INTEGER NOT NULL REFERENCES roles(id),
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, role_id)
);

INSERT OR IGNORE INTO roles (name) VALUES ('USER');
INSERT OR IGNORE INTO roles (name) VALUES ('ADMIN');
`

// initSchema はSQLiteデータベースにスキーマを適用する。
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
