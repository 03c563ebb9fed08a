package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	apidb "github.com/nao1215/coursebooking/internal/api/db"
	"github.com/nao1215/coursebooking/pkg/password"
)

// seedAdmin は指定されたメールアドレスの管理者を用意する。
// 既存ユーザーの場合は管理者に昇格し、パスワードは変更しない。
// メールアドレスが空の場合は何もしない。
func (s *Server) seedAdmin(ctx context.Context, email, plain string) error {
	if email == "" {
		return nil
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin {
			return nil
		}
		if _, err := s.queries.SetUserAdmin(ctx, user.ID); err != nil {
			return fmt.Errorf("管理者への昇格に失敗: %w", err)
		}
		log.Printf("既存ユーザーを管理者に昇格しました: %s", email)
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("ユーザー取得に失敗: %w", err)
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	if err := s.queries.CreateUser(ctx, apidb.CreateUserParams{
		ID:           uuid.New().String(),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      true,
	}); err != nil {
		return fmt.Errorf("管理者の作成に失敗: %w", err)
	}
	log.Printf("管理者を作成しました: %s", email)
	return nil
}
