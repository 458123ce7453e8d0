// Package crud はエンティティ共通のサービス層とリポジトリのデコレータを提供する。
package crud

import (
	"context"

	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
)

// Service はリポジトリに委譲する汎用サービス。
// 入力、出力、エラーを変更せずに受け渡す。
// エンティティ固有の規則は埋め込み側で該当メソッドを上書きして実装する。
type Service[E, C, U any] struct {
	repo repository.Repository[E, C, U]
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService[E, C, U any](repo repository.Repository[E, C, U]) *Service[E, C, U] {
	return &Service[E, C, U]{repo: repo}
}

// GetAll はエンティティ一覧を返す。
func (s *Service[E, C, U]) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[E], error) {
	return s.repo.GetAll(ctx, p, opts...)
}

// GetByID は指定IDのエンティティを返す。
func (s *Service[E, C, U]) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*E, error) {
	return s.repo.GetByID(ctx, id, opts...)
}

// Create はエンティティを作成する。
func (s *Service[E, C, U]) Create(ctx context.Context, in C) (*E, error) {
	return s.repo.Create(ctx, in)
}

// Update はエンティティを部分更新する。
func (s *Service[E, C, U]) Update(ctx context.Context, id string, in U) (*E, error) {
	return s.repo.Update(ctx, id, in)
}

// Delete はエンティティを削除する。
func (s *Service[E, C, U]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
