package model

import "strings"

// MaxTags は1投稿に付与できるタグの上限数。
const MaxTags = 5

// Post はユーザーが投稿した記事を表す。
// Authorは読み込みオプションで抑止された場合nilになる。
type Post struct {
	ID       string
	Title    string
	Content  string
	AuthorID string
	Author   *UserMinimal
	Tags     []string
}

// Tag は投稿に付与されるタグ。nameは全体で一意。
type Tag struct {
	ID   string
	Name string
}

// PostCreate は投稿作成の入力。
type PostCreate struct {
	Title    string
	Content  string
	AuthorID string
	Tags     []string
}

// Validate は入力値を検証する。タグの正規化と上限はサービス層で扱う。
func (c PostCreate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if c.AuthorID == "" {
		return NewValidationError("author_id", "is required")
	}
	return nil
}

// PostUpdate は投稿の部分更新入力。
// nilのフィールドは更新対象外として既存の値を維持する。
type PostUpdate struct {
	Title   *string
	Content *string
}

// Validate は指定されたフィールドのみを検証する。
func (u PostUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	return nil
}
