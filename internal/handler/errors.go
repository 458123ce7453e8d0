package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/postboard/internal/middleware"
	"github.com/hitoshi/postboard/internal/model"
)

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// writeValidationError は入力値エラーを422で書き込む。
func writeValidationError(w http.ResponseWriter, err error) {
	writeAPIErrorResponse(w, http.StatusUnprocessableEntity, &model.APIError{
		Code:     model.ErrCodeValidation,
		Message:  "入力値が不正です。",
		Category: "validation",
		Action:   "入力値を確認してください。",
		Detail:   err.Error(),
	})
}

// errorMapper はサービス層のエラーをHTTPレスポンスに変換する。
type errorMapper struct {
	// exposeDetails がtrueの場合、DB障害の詳細をレスポンスのdetailに含める。
	exposeDetails bool
}

// HandlerOption はハンドラーの振る舞いを変更する。
type HandlerOption func(*errorMapper)

// WithErrorDetails はDB障害の詳細をレスポンスに含めるかどうかを指定する。
// 本番環境では無効のままにする。
func WithErrorDetails(expose bool) HandlerOption {
	return func(m *errorMapper) {
		m.exposeDetails = expose
	}
}

func newErrorMapper(opts ...HandlerOption) errorMapper {
	var m errorMapper
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// DB障害の詳細はログに記録し、exposeDetailsが有効な場合のみレスポンスに含める。
func (m errorMapper) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *model.EntityNotFoundError
		exists   *model.EntityAlreadyExistsError
		tooMany  *model.TooManyTagsError
		invalid  *model.ValidationError
		dbErr    *model.DatabaseError
	)

	switch {
	case errors.As(err, &notFound):
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:       model.ErrCodeEntityNotFound,
			Message:    notFound.Error(),
			Category:   "resource",
			Action:     "IDを確認してください。",
			EntityType: notFound.EntityType,
			EntityID:   notFound.EntityID,
		})
	case errors.As(err, &exists):
		writeAPIErrorResponse(w, http.StatusConflict, &model.APIError{
			Code:       model.ErrCodeEntityAlreadyExists,
			Message:    exists.Error(),
			Category:   "resource",
			Action:     "重複しない値を指定してください。",
			EntityType: exists.EntityType,
		})
	case errors.As(err, &tooMany):
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeTooManyTags,
			Message:  tooMany.Error(),
			Category: "validation",
			Action:   fmt.Sprintf("タグを%d個以下にしてください。", tooMany.MaxTags),
			MaxTags:  tooMany.MaxTags,
		})
	case errors.As(err, &invalid):
		writeValidationError(w, invalid)
	case errors.As(err, &dbErr):
		slog.ErrorContext(r.Context(), "database error",
			slog.String("operation", dbErr.Operation),
			slog.String("error", dbErr.Error()),
			slog.String("path", r.URL.Path),
		)
		apiErr := &model.APIError{
			Code:     model.ErrCodeDatabase,
			Message:  fmt.Sprintf("Database %s failed.", dbErr.Operation),
			Category: "system",
			Action:   "しばらく待ってから再度お試しください。",
		}
		if m.exposeDetails {
			apiErr.Detail = dbErr.Details
		}
		writeAPIErrorResponse(w, http.StatusInternalServerError, apiErr)
	default:
		slog.ErrorContext(r.Context(), "internal server error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		middleware.WriteInternalServerError(w)
	}
}

func routeNotFoundError() *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeRouteNotFound,
		Message:  "指定されたパスは存在しません。",
		Category: "resource",
		Action:   "URLを確認してください。",
	}
}

func methodNotAllowedError() *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeMethodNotAllowed,
		Message:  "このメソッドは許可されていません。",
		Category: "validation",
		Action:   "HTTPメソッドを確認してください。",
	}
}
