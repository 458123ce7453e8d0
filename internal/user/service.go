// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"log/slog"

	"github.com/hitoshi/postboard/internal/crud"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
)

// Service はユーザー管理のサービス層。
// ユーザー固有の規則はなく、操作はリポジトリにそのまま委譲する。
type Service struct {
	*crud.Service[model.User, model.UserCreate, model.UserUpdate]
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.UserRepository) *Service {
	return &Service{Service: crud.NewService(repo)}
}

// Delete はユーザーを削除する。
// 投稿と投稿タグの関連はCASCADE削除され、タグ自体は共有データとして残す。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Service.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("ユーザーを削除しました",
		slog.String("user_id", id),
	)
	return nil
}
