package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/postboard/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	getAllFn  func(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error)
	getByIDFn func(ctx context.Context, id string, opts ...model.LoadOption) (*model.User, error)
	createFn  func(ctx context.Context, in model.UserCreate) (*model.User, error)
	updateFn  func(ctx context.Context, id string, in model.UserUpdate) (*model.User, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockUserRepo) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error) {
	return m.getAllFn(ctx, p, opts...)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*model.User, error) {
	return m.getByIDFn(ctx, id, opts...)
}
func (m *mockUserRepo) Create(ctx context.Context, in model.UserCreate) (*model.User, error) {
	return m.createFn(ctx, in)
}
func (m *mockUserRepo) Update(ctx context.Context, id string, in model.UserUpdate) (*model.User, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- テスト ---

// TestService_Create はユーザー作成がリポジトリにそのまま委譲されることを検証する。
func TestService_Create(t *testing.T) {
	in := model.UserCreate{Username: "alice", Email: "alice@example.com", Height: 160}
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, got model.UserCreate) (*model.User, error) {
			if got != in {
				t.Errorf("Create input = %+v, want %+v", got, in)
			}
			return &model.User{ID: "u1", Username: got.Username, Email: got.Email}, nil
		},
	}

	svc := NewService(repo)
	user, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "u1")
	}
}

// TestService_GetAll はページ指定が変更されずに渡されることを検証する。
func TestService_GetAll(t *testing.T) {
	repo := &mockUserRepo{
		getAllFn: func(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error) {
			if p == nil || p.Page != 3 || p.Limit != 10 {
				t.Errorf("pagination = %+v, want page=3 limit=10", p)
			}
			return model.NewPaginatedResult(0, []model.User{}), nil
		},
	}

	svc := NewService(repo)
	if _, err := svc.GetAll(context.Background(), &model.PaginationParams{Page: 3, Limit: 10}); err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
}

// TestService_Delete はユーザー削除がリポジトリに委譲されることを検証する。
func TestService_Delete(t *testing.T) {
	called := false
	repo := &mockUserRepo{
		deleteFn: func(ctx context.Context, id string) error {
			called = true
			if id != "user-1" {
				t.Errorf("id = %q, want %q", id, "user-1")
			}
			return nil
		},
	}

	svc := NewService(repo)
	if err := svc.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !called {
		t.Error("expected repository Delete to be called")
	}
}

// TestService_Delete_UserNotFound は存在しないユーザーの削除がEntityNotFoundErrorになることを検証する。
func TestService_Delete_UserNotFound(t *testing.T) {
	repo := &mockUserRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return model.NewEntityNotFoundError("User", id)
		},
	}

	svc := NewService(repo)
	err := svc.Delete(context.Background(), "nonexistent")

	var notFound *model.EntityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected EntityNotFoundError, got %v", err)
	}
	if notFound.EntityID != "nonexistent" {
		t.Errorf("EntityID = %q, want %q", notFound.EntityID, "nonexistent")
	}
}

// TestService_Update_PropagatesAlreadyExists はメール重複エラーがそのまま返ることを検証する。
func TestService_Update_PropagatesAlreadyExists(t *testing.T) {
	email := "taken@example.com"
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, id string, in model.UserUpdate) (*model.User, error) {
			if in.Email == nil || *in.Email != email {
				t.Errorf("Email = %v, want %q", in.Email, email)
			}
			return nil, model.NewEntityAlreadyExistsError("User")
		},
	}

	svc := NewService(repo)
	_, err := svc.Update(context.Background(), "u1", model.UserUpdate{Email: &email})

	var exists *model.EntityAlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected EntityAlreadyExistsError, got %v", err)
	}
}
