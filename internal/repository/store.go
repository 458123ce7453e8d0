package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/database"
	"github.com/hitoshi/postboard/internal/model"
)

// rowScanner は*sql.Rowと*sql.Rowsの共通操作。
type rowScanner interface {
	Scan(dest ...any) error
}

// entityMapper はエンティティごとのテーブル定義と変換処理。
// pgStoreに注入され、汎用のCRUD処理から呼び出される。
// 省略可能なフックはnilのままでよい。
type entityMapper[E, C, U any] struct {
	// entityType はエラーに含めるエンティティ名（例: "User"）。
	entityType string
	// table は引用符付きのテーブル名。
	table string
	// columns はSELECTする列。先頭はidであること。
	columns []string
	// scan は1行をドメインエンティティに変換する。
	scan func(row rowScanner) (*E, error)

	// insertColumns と insertValues はid以外のINSERT列と値。順序を一致させる。
	insertColumns []string
	insertValues  func(in C) []any

	// updateAssignments は部分更新入力のうち指定されたフィールドの列と値を返す。
	updateAssignments func(in U) (columns []string, args []any)

	// beforeInsert はINSERT前の存在確認などを行う。
	beforeInsert func(ctx context.Context, q database.Querier, in C) error
	// afterInsert は関連テーブルへの書き込みを行う。
	afterInsert func(ctx context.Context, q database.Querier, id string, in C) error
	// insertError はINSERT失敗をエンティティ固有のエラーに変換する。nilを返した場合は共通の変換を行う。
	insertError func(in C, err error) error
	// loadRelations は読み出したエンティティに関連データを埋める。
	loadRelations func(ctx context.Context, q database.Querier, items []*E, opts model.LoadOptions) error
}

// pgStore はentityMapperでパラメータ化されたPostgreSQL用の汎用CRUD実装。
// すべての操作は1つのトランザクション内で完結する。
type pgStore[E, C, U any] struct {
	db database.TxBeginner
	m  entityMapper[E, C, U]
}

func newPGStore[E, C, U any](db database.TxBeginner, m entityMapper[E, C, U]) *pgStore[E, C, U] {
	return &pgStore[E, C, U]{db: db, m: m}
}

// GetAll はエンティティ一覧をid昇順で返す。
func (s *pgStore[E, C, U]) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[E], error) {
	if p != nil {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	loadOpts := model.ResolveLoadOptions(opts...)

	// 件数とページ内容を同じスナップショットから読む。
	var result *model.PaginatedResult[E]
	err := database.WithTxOptions(ctx, s.db, database.ReadSnapshot(), func(tx *sql.Tx) error {
		query := s.selectQuery() + ` ORDER BY id`
		var args []any

		total := -1
		if p != nil {
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.m.table).Scan(&total); err != nil {
				return fmt.Errorf("failed to count %s: %w", s.m.entityType, err)
			}
			query += ` LIMIT $1 OFFSET $2`
			args = append(args, p.Limit, p.Offset())
		}

		items, err := s.queryAll(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		if err := s.load(ctx, tx, items, loadOpts); err != nil {
			return err
		}

		if total < 0 {
			total = len(items)
		}
		result = model.NewPaginatedResult(total, deref(items))
		return nil
	})
	if err != nil {
		return nil, translateError(s.m.entityType, "select", err)
	}

	return result, nil
}

// GetByID は指定IDのエンティティを返す。
func (s *pgStore[E, C, U]) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*E, error) {
	loadOpts := model.ResolveLoadOptions(opts...)

	var entity *E
	err := database.WithTxOptions(ctx, s.db, database.ReadSnapshot(), func(tx *sql.Tx) error {
		var err error
		entity, err = s.getByID(ctx, tx, id, loadOpts)
		return err
	})
	if err != nil {
		return nil, translateError(s.m.entityType, "select", err)
	}

	return entity, nil
}

// Create はUUIDv7のIDを採番してエンティティを作成する。
// UUIDv7は時刻順のため、id昇順が作成順になる。
func (s *pgStore[E, C, U]) Create(ctx context.Context, in C) (*E, error) {
	newID, err := uuid.NewV7()
	if err != nil {
		return nil, model.NewDatabaseError("insert", fmt.Errorf("failed to generate id: %w", err))
	}
	id := newID.String()

	var entity *E
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if s.m.beforeInsert != nil {
			if err := s.m.beforeInsert(ctx, tx, in); err != nil {
				return err
			}
		}

		columns := append([]string{"id"}, s.m.insertColumns...)
		args := append([]any{id}, s.m.insertValues(in)...)
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			s.m.table, strings.Join(columns, ", "), placeholders(1, len(args)))

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if s.m.insertError != nil {
				if mapped := s.m.insertError(in, err); mapped != nil {
					return mapped
				}
			}
			return err
		}

		if s.m.afterInsert != nil {
			if err := s.m.afterInsert(ctx, tx, id, in); err != nil {
				return err
			}
		}

		var err error
		entity, err = s.getByID(ctx, tx, id, model.ResolveLoadOptions())
		return err
	})
	if err != nil {
		return nil, translateError(s.m.entityType, "insert", err)
	}

	return entity, nil
}

// Update は指定されたフィールドのみを更新する。
// 更新対象のフィールドがない場合は存在確認のみを行い現在の状態を返す。
func (s *pgStore[E, C, U]) Update(ctx context.Context, id string, in U) (*E, error) {
	var entity *E
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		columns, args := s.m.updateAssignments(in)

		if len(columns) > 0 {
			if !isUUID(id) {
				return model.NewEntityNotFoundError(s.m.entityType, id)
			}

			sets := make([]string, len(columns))
			for i, col := range columns {
				sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
			}
			args = append(args, id)
			query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
				s.m.table, strings.Join(sets, ", "), len(args))

			result, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				return model.NewEntityNotFoundError(s.m.entityType, id)
			}
		}

		var err error
		entity, err = s.getByID(ctx, tx, id, model.ResolveLoadOptions())
		return err
	})
	if err != nil {
		return nil, translateError(s.m.entityType, "update", err)
	}

	return entity, nil
}

// Delete は指定IDのエンティティを削除する。
func (s *pgStore[E, C, U]) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return model.NewEntityNotFoundError(s.m.entityType, id)
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM `+s.m.table+` WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return model.NewEntityNotFoundError(s.m.entityType, id)
		}
		return nil
	})

	return translateError(s.m.entityType, "delete", err)
}

// getByID はトランザクション内で1件を取得し、関連データを埋める。
func (s *pgStore[E, C, U]) getByID(ctx context.Context, q database.Querier, id string, opts model.LoadOptions) (*E, error) {
	if !isUUID(id) {
		return nil, model.NewEntityNotFoundError(s.m.entityType, id)
	}

	entity, err := s.m.scan(q.QueryRowContext(ctx, s.selectQuery()+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewEntityNotFoundError(s.m.entityType, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s by ID: %w", s.m.entityType, err)
	}

	if err := s.load(ctx, q, []*E{entity}, opts); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *pgStore[E, C, U]) queryAll(ctx context.Context, q database.Querier, query string, args ...any) ([]*E, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.m.entityType, err)
	}
	defer rows.Close()

	var items []*E
	for rows.Next() {
		entity, err := s.m.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.m.entityType, err)
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.m.entityType, err)
	}

	return items, nil
}

func (s *pgStore[E, C, U]) load(ctx context.Context, q database.Querier, items []*E, opts model.LoadOptions) error {
	if s.m.loadRelations == nil || len(items) == 0 {
		return nil
	}
	return s.m.loadRelations(ctx, q, items, opts)
}

func (s *pgStore[E, C, U]) selectQuery() string {
	return `SELECT ` + strings.Join(s.m.columns, ", ") + ` FROM ` + s.m.table
}

// placeholders は"$start, $start+1, ..."をn個生成する。
func placeholders(start, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(ph, ", ")
}

// isUUID はUUIDとして解釈可能かどうかを返す。
// 解釈できないIDは存在し得ないため、DBに問い合わせずに未検出として扱う。
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func deref[E any](items []*E) []E {
	out := make([]E, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
