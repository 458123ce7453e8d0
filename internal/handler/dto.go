package handler

import (
	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/model"
)

// --- リクエスト ---

// userCreateRequest はユーザー作成リクエストのボディ。
// levelは省略時0、is_activeは省略時true。
type userCreateRequest struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Level     int         `json:"level"`
	Height    *float64    `json:"height"`
	IsActive  *bool       `json:"is_active"`
	BirthDate *model.Date `json:"birth_date"`
}

func (req userCreateRequest) toModel() (model.UserCreate, error) {
	if req.Height == nil {
		return model.UserCreate{}, model.NewValidationError("height", "is required")
	}
	if req.BirthDate == nil {
		return model.UserCreate{}, model.NewValidationError("birth_date", "is required")
	}

	in := model.UserCreate{
		Username:  req.Username,
		Email:     req.Email,
		Level:     req.Level,
		Height:    *req.Height,
		IsActive:  true,
		BirthDate: *req.BirthDate,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	return in, in.Validate()
}

// userUpdateRequest はユーザー部分更新リクエストのボディ。
// 省略またはnullのフィールドは更新しない。
type userUpdateRequest struct {
	Username *string  `json:"username"`
	Email    *string  `json:"email"`
	Height   *float64 `json:"height"`
}

func (req userUpdateRequest) toModel() (model.UserUpdate, error) {
	in := model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Height:   req.Height,
	}
	return in, in.Validate()
}

// postCreateRequest は投稿作成リクエストのボディ。
type postCreateRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	AuthorID string   `json:"author_id"`
	Tags     []string `json:"tags"`
}

func (req postCreateRequest) toModel() (model.PostCreate, error) {
	in := model.PostCreate{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
		Tags:     req.Tags,
	}
	if err := in.Validate(); err != nil {
		return in, err
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		return in, model.NewValidationError("author_id", "must be a UUID")
	}
	in.AuthorID = authorID.String()
	if in.Tags == nil {
		in.Tags = []string{}
	}
	return in, nil
}

// postUpdateRequest は投稿部分更新リクエストのボディ。
type postUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (req postUpdateRequest) toModel() (model.PostUpdate, error) {
	in := model.PostUpdate{Title: req.Title, Content: req.Content}
	return in, in.Validate()
}

// --- レスポンス ---

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Level     int            `json:"level"`
	Height    float64        `json:"height"`
	IsActive  bool           `json:"is_active"`
	BirthDate model.Date     `json:"birth_date"`
	Posts     []postResponse `json:"posts"`
}

// authorResponse は投稿に埋め込む投稿者の最小情報。
type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// postResponse は投稿情報のAPIレスポンス。
// authorは投稿者を読み込まなかった場合に省略される。
type postResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	AuthorID string          `json:"author_id"`
	Tags     []string        `json:"tags"`
	Author   *authorResponse `json:"author,omitempty"`
}

// paginatedResponse は一覧取得のAPIレスポンス。
type paginatedResponse[T any] struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Items []T `json:"items"`
}

func toUserResponse(u *model.User) userResponse {
	posts := make([]postResponse, len(u.Posts))
	for i := range u.Posts {
		posts[i] = toPostResponse(&u.Posts[i])
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Level:     u.Level,
		Height:    u.Height,
		IsActive:  u.IsActive,
		BirthDate: u.BirthDate,
		Posts:     posts,
	}
}

func toPostResponse(p *model.Post) postResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := postResponse{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		AuthorID: p.AuthorID,
		Tags:     tags,
	}
	if p.Author != nil {
		resp.Author = &authorResponse{
			ID:       p.Author.ID,
			Username: p.Author.Username,
			Email:    p.Author.Email,
		}
	}
	return resp
}

// toPaginatedResponse はページ結果の各要素をconvで変換する。
func toPaginatedResponse[E, R any](res *model.PaginatedResult[E], conv func(*E) R) paginatedResponse[R] {
	items := make([]R, len(res.Items))
	for i := range res.Items {
		items[i] = conv(&res.Items[i])
	}
	return paginatedResponse[R]{
		Total: res.Total,
		Limit: res.Limit,
		Items: items,
	}
}
