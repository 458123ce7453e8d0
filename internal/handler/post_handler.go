package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/postboard/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[model.Post], error)
	GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*model.Post, error)
	// Create はタグを正規化して投稿を作成する。
	Create(ctx context.Context, in model.PostCreate) (*model.Post, error)
	Update(ctx context.Context, id string, in model.PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	errorMapper
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, opts ...HandlerOption) *PostHandler {
	return &PostHandler{
		errorMapper: newErrorMapper(opts...),
		service:     service,
	}
}

// ListPosts は投稿一覧を返す。
// GET /posts?page=&limit=&include_author=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	opts, err := parseLoadOptions(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.service.GetAll(r.Context(), p, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaginatedResponse(res, toPostResponse))
}

// GetPost は投稿詳細を返す。
// GET /posts/{id}?include_author=
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	opts, err := parseLoadOptions(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.service.GetByID(r.Context(), id, opts...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// CreatePost は投稿を作成する。
// POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toModel()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// UpdatePost は投稿を部分更新する。
// PUT /posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req postUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toModel()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// DeletePost は投稿を削除する。
// DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
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
