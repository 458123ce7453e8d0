package model

import "math"

// ページネーションのデフォルト値。
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// PaginationParams はページ指定を表す。
type PaginationParams struct {
	Page  int
	Limit int
}

// DefaultPagination はデフォルトのページ指定を返す。
func DefaultPagination() PaginationParams {
	return PaginationParams{Page: DefaultPage, Limit: DefaultLimit}
}

// Offset は(page-1)*limitを返す。
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Validate はpageとlimitが正の整数であり、Offsetがintに収まることを検証する。
func (p PaginationParams) Validate() error {
	if p.Page < 1 {
		return NewValidationError("page", "must be a positive integer")
	}
	if p.Limit < 1 {
		return NewValidationError("limit", "must be a positive integer")
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return NewValidationError("page", "is out of range for the given limit")
	}
	return nil
}

// PaginatedResult はページ単位の取得結果。
// Totalはページ指定を無視した全件数、Limitは実際に返した件数（len(Items)）。
type PaginatedResult[T any] struct {
	Total int
	Limit int
	Items []T
}

// NewPaginatedResult はItemsの件数からLimitを設定した結果を生成する。
func NewPaginatedResult[T any](total int, items []T) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Total: total,
		Limit: len(items),
		Items: items,
	}
}

// LoadOptions は読み出し時に関連データをどこまで埋めるかを指定する。
// データは変更しない。
type LoadOptions struct {
	IncludeAuthor bool
}

// LoadOption はLoadOptionsを変更する関数。
type LoadOption func(*LoadOptions)

// WithAuthor は投稿の投稿者射影を埋めるかどうかを指定する。
func WithAuthor(include bool) LoadOption {
	return func(o *LoadOptions) {
		o.IncludeAuthor = include
	}
}

// ResolveLoadOptions はデフォルト値にoptsを適用した結果を返す。
func ResolveLoadOptions(opts ...LoadOption) LoadOptions {
	o := LoadOptions{IncludeAuthor: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
