// Package post は投稿管理のドメインロジックを提供する。
package post

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hitoshi/postboard/internal/crud"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
)

// Service は投稿管理のサービス層。
// 作成時のタグ正規化と上限チェック以外はリポジトリに委譲する。
type Service struct {
	*crud.Service[model.Post, model.PostCreate, model.PostUpdate]
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.PostRepository) *Service {
	return &Service{Service: crud.NewService(repo)}
}

// Create はタグを正規化して投稿を作成する。
// 正規化後のタグ数がmodel.MaxTagsを超える場合はリポジトリを呼ばずにTooManyTagsErrorを返す。
func (s *Service) Create(ctx context.Context, in model.PostCreate) (*model.Post, error) {
	tags := CleanTags(in.Tags)
	if len(tags) > model.MaxTags {
		return nil, model.NewTooManyTagsError(model.MaxTags)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Tags = tags

	post, err := s.Service.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	slog.Info("投稿を作成しました",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
		slog.Int("tags", len(post.Tags)),
	)
	return post, nil
}
