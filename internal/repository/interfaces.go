// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/postboard/internal/model"
)

// Repository はエンティティ共通のCRUD契約。
// Eはドメインエンティティ、Cは作成入力、Uは部分更新入力。
// 返すエラーはmodelパッケージのドメインエラーに変換済みで、
// ドライバのエラーをそのまま返すことはない。
type Repository[E, C, U any] interface {
	// GetAll はエンティティ一覧を返す。
	// pがnilの場合は全件を返し、TotalとLimitは返却件数と等しくなる。
	// pが指定された場合はOFFSET (page-1)*limitを適用し、Totalは全件数、
	// Limitは実際に返した件数になる。並び順はid昇順（=作成順）で固定。
	GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[E], error)

	// GetByID は指定IDのエンティティを返す。存在しない場合はEntityNotFoundErrorを返す。
	// optsは関連データの読み込みヒントで、データは変更しない。
	GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*E, error)

	// Create はエンティティを作成し、永続化後の状態を返す。
	// 一意制約違反はEntityAlreadyExistsError、その他の失敗はDatabaseErrorを返す。
	Create(ctx context.Context, in C) (*E, error)

	// Update は入力で指定されたフィールドのみを更新し、永続化後の状態を返す。
	// 存在しない場合はEntityNotFoundErrorを返す。
	Update(ctx context.Context, id string, in U) (*E, error)

	// Delete は指定IDのエンティティを物理削除する。
	// 存在しない場合はEntityNotFoundErrorを返す。
	Delete(ctx context.Context, id string) error
}

// UserRepository はユーザーデータの永続化インターフェース。
// 読み出し時は常に投稿一覧（タグ付き、投稿者射影なし）を埋める。
// 削除時は投稿もCASCADE削除される。
type UserRepository = Repository[model.User, model.UserCreate, model.UserUpdate]

// PostRepository は投稿データの永続化インターフェース。
// 読み出し時の投稿者射影はmodel.WithAuthor(false)で抑止できる。
type PostRepository = Repository[model.Post, model.PostCreate, model.PostUpdate]
