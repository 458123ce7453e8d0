package model

import "fmt"

// EntityNotFoundError は指定IDのエンティティが存在しないことを表す。
// 作成時に参照先が存在しない場合（投稿者IDなど）にも使用する。
type EntityNotFoundError struct {
	EntityType string
	EntityID   string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found.", e.EntityType, e.EntityID)
}

// NewEntityNotFoundError はEntityNotFoundErrorを生成する。
func NewEntityNotFoundError(entityType, entityID string) *EntityNotFoundError {
	return &EntityNotFoundError{EntityType: entityType, EntityID: entityID}
}

// EntityAlreadyExistsError は一意制約違反を表す。
type EntityAlreadyExistsError struct {
	EntityType string
}

func (e *EntityAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists.", e.EntityType)
}

// NewEntityAlreadyExistsError はEntityAlreadyExistsErrorを生成する。
func NewEntityAlreadyExistsError(entityType string) *EntityAlreadyExistsError {
	return &EntityAlreadyExistsError{EntityType: entityType}
}

// DatabaseError は一意制約違反以外の永続化層の失敗を表す。
// Errには元のエラーを保持し、errors.Is/Asで辿れるようにする。
type DatabaseError struct {
	Operation string
	Details   string
	Err       error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("Database %s failed: %s.", e.Operation, e.Details)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError は元のエラーからDatabaseErrorを生成する。
func NewDatabaseError(operation string, err error) *DatabaseError {
	details := "unknown error"
	if err != nil {
		details = err.Error()
	}
	return &DatabaseError{Operation: operation, Details: details, Err: err}
}

// TooManyTagsError は正規化後のタグ数が上限を超えたことを表す。
// 永続化の前に検出される入力形状のエラー。
type TooManyTagsError struct {
	MaxTags int
}

func (e *TooManyTagsError) Error() string {
	return fmt.Sprintf("A post cannot have more than %d tags", e.MaxTags)
}

// NewTooManyTagsError はTooManyTagsErrorを生成する。
func NewTooManyTagsError(maxTags int) *TooManyTagsError {
	return &TooManyTagsError{MaxTags: maxTags}
}

// ValidationError は境界で検出した入力値の不正を表す。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError はValidationErrorを生成する。
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, resource, system
	Action   string // ユーザー向け対処方法

	// 以下はエラー種別ごとの補足情報。該当しない場合はゼロ値。
	EntityType string
	EntityID   string
	MaxTags    int
	Detail     string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEntityNotFound      = "ENTITY_NOT_FOUND"
	ErrCodeEntityAlreadyExists = "ENTITY_ALREADY_EXISTS"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodeTooManyTags         = "TOO_MANY_TAGS"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeRouteNotFound       = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewInvalidRequestError はリクエストボディ解析失敗のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewInternalError は内部エラーを生成する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
