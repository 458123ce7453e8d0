// Package model はドメインモデルを定義する。
package model

import (
	"math"
	"strings"
)

// ユーザー属性の許容範囲。
const (
	MinLevel  = 0
	MaxLevel  = 100
	MinHeight = 50.0
	MaxHeight = 250.0
)

// User はサービス利用ユーザーを表す。
// Postsは読み出し時に常に投稿者として紐づく投稿を含む。
type User struct {
	ID        string
	Username  string
	Email     string
	Level     int
	Height    float64
	IsActive  bool
	BirthDate Date
	Posts     []Post
}

// UserMinimal は投稿に埋め込むユーザーの最小射影。
type UserMinimal struct {
	ID       string
	Username string
	Email    string
}

// UserCreate はユーザー作成の入力。
type UserCreate struct {
	Username  string
	Email     string
	Level     int
	Height    float64
	IsActive  bool
	BirthDate Date
}

// Validate は入力値の範囲を検証する。
func (c UserCreate) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return NewValidationError("username", "must not be empty")
	}
	if strings.TrimSpace(c.Email) == "" {
		return NewValidationError("email", "must not be empty")
	}
	if c.Level < MinLevel || c.Level > MaxLevel {
		return NewValidationError("level", "out of range")
	}
	if err := validateHeight(c.Height); err != nil {
		return err
	}
	if c.BirthDate.IsZero() {
		return NewValidationError("birth_date", "is required")
	}
	return nil
}

// UserUpdate はユーザーの部分更新入力。
// nilのフィールドは更新対象外として既存の値を維持する。
type UserUpdate struct {
	Username *string
	Email    *string
	Height   *float64
}

// Validate は指定されたフィールドのみを検証する。
func (u UserUpdate) Validate() error {
	if u.Username != nil && strings.TrimSpace(*u.Username) == "" {
		return NewValidationError("username", "must not be empty")
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) == "" {
		return NewValidationError("email", "must not be empty")
	}
	if u.Height != nil {
		return validateHeight(*u.Height)
	}
	return nil
}

func validateHeight(h float64) error {
	if math.IsNaN(h) || h < MinHeight || h > MaxHeight {
		return NewValidationError("height", "out of range")
	}
	return nil
}
