package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/postboard/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.User], error)
	GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*model.User, error)
	Create(ctx context.Context, in model.UserCreate) (*model.User, error)
	Update(ctx context.Context, id string, in model.UserUpdate) (*model.User, error)
	// Delete はユーザーを削除する。投稿はCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	errorMapper
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, opts ...HandlerOption) *UserHandler {
	return &UserHandler{
		errorMapper: newErrorMapper(opts...),
		service:     service,
	}
}

// ListUsers はユーザー一覧を返す。
// GET /users?page=&limit=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.service.GetAll(r.Context(), p)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaginatedResponse(res, toUserResponse))
}

// GetUser はユーザー詳細を返す。
// GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// CreateUser はユーザーを作成する。
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toModel()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// UpdateUser はユーザーを部分更新する。
// PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req userUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toModel()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser はユーザーを削除する。
// DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
