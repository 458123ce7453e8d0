package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/model"
)

// decodeJSON はリクエストボディをJSONとして解析する。
// 失敗した場合は400を書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return false
	}
	return true
}

// pathID はURLパラメータ{id}をUUIDとして検証して返す。
// UUIDとして解釈できない場合は422を書き込みfalseを返す。
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeValidationError(w, model.NewValidationError("id", "must be a UUID"))
		return "", false
	}
	return id.String(), true
}

// parsePagination はpageとlimitのクエリパラメータを解析する。
// 未指定の場合はデフォルト値を使用する。
func parsePagination(r *http.Request) (*model.PaginationParams, error) {
	p := model.DefaultPagination()
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, model.NewValidationError("page", "must be a positive integer")
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, model.NewValidationError("limit", "must be a positive integer")
		}
		p.Limit = n
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// parseLoadOptions はinclude_authorクエリパラメータを読み込みオプションに変換する。
// 未指定の場合は投稿者を含める。
func parseLoadOptions(r *http.Request) ([]model.LoadOption, error) {
	v := r.URL.Query().Get("include_author")
	if v == "" {
		return nil, nil
	}
	include, err := strconv.ParseBool(v)
	if err != nil {
		return nil, model.NewValidationError("include_author", "must be a boolean")
	}
	return []model.LoadOption{model.WithAuthor(include)}, nil
}

// writeJSON はステータスコードとともにJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
