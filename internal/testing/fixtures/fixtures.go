// Package fixtures はテストデータを生成するファクトリを提供する。
//
// 各ファクトリはデフォルト値でエンティティを作成し、オプション関数で
// 個別の値を上書きできる。DB挿入はリポジトリ経由で行う。
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	post := f.CreatePost(t, user, fixtures.WithTags("go", "sql"))
package fixtures

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
)

// Factory はテスト用エンティティをデータベースに作成する。
type Factory struct {
	Users repository.UserRepository
	Posts repository.PostRepository
}

// New はFactoryを生成する。
func New(db *sql.DB) *Factory {
	return &Factory{
		Users: repository.NewPostgresUserRepo(db),
		Posts: repository.NewPostgresPostRepo(db),
	}
}

func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// UserData はDBに触れずに一意なユーザー作成入力を返す。
func UserData(opts ...func(*model.UserCreate)) model.UserCreate {
	id := randomID()
	in := model.UserCreate{
		Username:  "user_" + id,
		Email:     fmt.Sprintf("user_%s@example.com", id),
		Level:     10,
		Height:    170.0,
		IsActive:  true,
		BirthDate: model.NewDate(1990, time.January, 1),
	}
	for _, fn := range opts {
		fn(&in)
	}
	return in
}

// WithEmail はメールアドレスを上書きする。
func WithEmail(email string) func(*model.UserCreate) {
	return func(in *model.UserCreate) { in.Email = email }
}

// WithUsername はユーザー名を上書きする。
func WithUsername(name string) func(*model.UserCreate) {
	return func(in *model.UserCreate) { in.Username = name }
}

// PostData はDBに触れずに投稿作成入力を返す。
func PostData(authorID string, opts ...func(*model.PostCreate)) model.PostCreate {
	in := model.PostCreate{
		Title:    "Post " + randomID(),
		Content:  "content",
		AuthorID: authorID,
		Tags:     []string{},
	}
	for _, fn := range opts {
		fn(&in)
	}
	return in
}

// WithTags はタグを上書きする。
func WithTags(tags ...string) func(*model.PostCreate) {
	return func(in *model.PostCreate) { in.Tags = tags }
}

// WithTitle はタイトルを上書きする。
func WithTitle(title string) func(*model.PostCreate) {
	return func(in *model.PostCreate) { in.Title = title }
}

// CreateUser はユーザーを作成する。
func (f *Factory) CreateUser(t *testing.T, opts ...func(*model.UserCreate)) *model.User {
	t.Helper()

	user, err := f.Users.Create(ctx(t), UserData(opts...))
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreatePost は指定ユーザーを投稿者として投稿を作成する。
func (f *Factory) CreatePost(t *testing.T, author *model.User, opts ...func(*model.PostCreate)) *model.Post {
	t.Helper()

	post, err := f.Posts.Create(ctx(t), PostData(author.ID, opts...))
	if err != nil {
		t.Fatalf("fixtures: failed to create post: %v", err)
	}
	return post
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}
