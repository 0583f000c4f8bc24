package authgw

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// TestUserStoreFindByUsername はユーザー検索を検証する。
func TestUserStoreFindByUsername(t *testing.T) {
	t.Parallel()

	t.Run("ロールが割り当て順で読み込まれること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))
		ctx := context.Background()

		userRole, err := store.FindRoleByName(ctx, "USER")
		if err != nil {
			t.Fatalf("USERロールの取得に失敗: %v", err)
		}
		adminRole, err := store.FindRoleByName(ctx, "ADMIN")
		if err != nil {
			t.Fatalf("ADMINロールの取得に失敗: %v", err)
		}

		user := &User{
			ID:           uuid.New().String(),
			Username:     "alice",
			Email:        "a@x.com",
			PasswordHash: "hash",
			Active:       true,
		}
		// ADMINを先頭に割り当てて順序が保存されることを確認する
		if err := store.CreateUser(ctx, user, []int64{adminRole.ID, userRole.ID}); err != nil {
			t.Fatalf("ユーザー作成に失敗: %v", err)
		}

		got, err := store.FindByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindByUsername()でエラーが発生: %v", err)
		}
		if got.Username != "alice" || got.Email != "a@x.com" {
			t.Errorf("ユーザー = %+v, want alice/a@x.com", got)
		}
		if !got.Active {
			t.Error("Active = false, want true")
		}
		if len(got.Roles) != 2 || got.Roles[0] != "ADMIN" || got.Roles[1] != "USER" {
			t.Errorf("Roles = %v, want [ADMIN USER]", got.Roles)
		}
	})

	t.Run("存在しないユーザーはsql.ErrNoRowsになること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))

		_, err := store.FindByUsername(context.Background(), "nobody")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("エラー = %v, want sql.ErrNoRows", err)
		}
	})
}

// TestUserStoreCreateUser はユーザー作成を検証する。
func TestUserStoreCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("ユーザー名が重複するとエラーになること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))
		ctx := context.Background()

		role, err := store.FindRoleByName(ctx, "USER")
		if err != nil {
			t.Fatalf("USERロールの取得に失敗: %v", err)
		}

		first := &User{ID: uuid.New().String(), Username: "alice", Email: "a@x.com", PasswordHash: "h", Active: true}
		if err := store.CreateUser(ctx, first, []int64{role.ID}); err != nil {
			t.Fatalf("1人目の作成に失敗: %v", err)
		}

		second := &User{ID: uuid.New().String(), Username: "alice", Email: "b@x.com", PasswordHash: "h", Active: true}
		if err := store.CreateUser(ctx, second, []int64{role.ID}); err == nil {
			t.Error("重複ユーザー名でエラーが返らなかった")
		}
	})

	t.Run("メールアドレスが重複するとエラーになること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))
		ctx := context.Background()

		role, err := store.FindRoleByName(ctx, "USER")
		if err != nil {
			t.Fatalf("USERロールの取得に失敗: %v", err)
		}

		first := &User{ID: uuid.New().String(), Username: "alice", Email: "a@x.com", PasswordHash: "h", Active: true}
		if err := store.CreateUser(ctx, first, []int64{role.ID}); err != nil {
			t.Fatalf("1人目の作成に失敗: %v", err)
		}

		second := &User{ID: uuid.New().String(), Username: "bob", Email: "a@x.com", PasswordHash: "h", Active: true}
		if err := store.CreateUser(ctx, second, []int64{role.ID}); err == nil {
			t.Error("重複メールアドレスでエラーが返らなかった")
		}
	})
}

// TestUserStoreFindRoleByName はロール検索を検証する。
func TestUserStoreFindRoleByName(t *testing.T) {
	t.Parallel()

	t.Run("シードされたデフォルトロールが取得できること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))

		role, err := store.FindRoleByName(context.Background(), "USER")
		if err != nil {
			t.Fatalf("FindRoleByName()でエラーが発生: %v", err)
		}
		if role.Name != "USER" {
			t.Errorf("Name = %q, want %q", role.Name, "USER")
		}
	})

	t.Run("存在しないロールはsql.ErrNoRowsになること", func(t *testing.T) {
		t.Parallel()

		store := newUserStore(newTestDB(t))

		_, err := store.FindRoleByName(context.Background(), "SUPERUSER")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("エラー = %v, want sql.ErrNoRows", err)
		}
	})
}
