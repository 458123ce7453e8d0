package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/postboard/internal/middleware"
	"github.com/hitoshi/postboard/internal/model"
)

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	getAllFn  func(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error)
	getByIDFn func(ctx context.Context, id string, opts ...model.LoadOption) (*model.User, error)
	createFn  func(ctx context.Context, in model.UserCreate) (*model.User, error)
	updateFn  func(ctx context.Context, id string, in model.UserUpdate) (*model.User, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockUserService) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx, p, opts...)
	}
	return model.NewPaginatedResult(0, []model.User{}), nil
}

func (m *mockUserService) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, opts...)
	}
	return nil, model.NewEntityNotFoundError("User", id)
}

func (m *mockUserService) Create(ctx context.Context, in model.UserCreate) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.User{ID: testUserID}, nil
}

func (m *mockUserService) Update(ctx context.Context, id string, in model.UserUpdate) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockPostService はPostServiceInterfaceのモック実装。
type mockPostService struct {
	getAllFn  func(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.Post], error)
	getByIDFn func(ctx context.Context, id string, opts ...model.LoadOption) (*model.Post, error)
	createFn  func(ctx context.Context, in model.PostCreate) (*model.Post, error)
	updateFn  func(ctx context.Context, id string, in model.PostUpdate) (*model.Post, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockPostService) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.Post], error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx, p, opts...)
	}
	return model.NewPaginatedResult(0, []model.Post{}), nil
}

func (m *mockPostService) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, opts...)
	}
	return nil, model.NewEntityNotFoundError("Post", id)
}

func (m *mockPostService) Create(ctx context.Context, in model.PostCreate) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Post{ID: testPostID, AuthorID: in.AuthorID, Tags: in.Tags}, nil
}

func (m *mockPostService) Update(ctx context.Context, id string, in model.PostUpdate) (*model.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return &model.Post{ID: id}, nil
}

func (m *mockPostService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- ヘルパー ---

const (
	testUserID = "0192f5a0-0000-7000-8000-000000000001"
	testPostID = "0192f5a0-0000-7000-8000-000000000002"
)

// withURLParam はchiのURLパラメータ{id}をリクエストに注入する。
func withURLParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

// errorBody はエラーレスポンスのテスト用デコード先。
type errorBody = middleware.ErrorResponseBody
