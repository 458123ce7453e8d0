package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxBeginner はトランザクション開始用のインターフェース。
// *sql.DBが満たす。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Querier は*sql.DBと*sql.Txの共通操作。
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadSnapshot は複数の文で一貫したスナップショットを読む読み取り専用トランザクションの設定を返す。
// 件数とページ内容のように、同じ時点の状態を揃えたい読み出しに使う。
func ReadSnapshot() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// WithTx は1リクエスト分の作業単位をトランザクション内で実行する。
// fnがnilを返した場合のみコミットし、エラーまたはpanicの場合はロールバックする。
// どの経路でもトランザクションは必ず解放される。
// コミット失敗は再試行せずそのまま返す。
func WithTx(ctx context.Context, db TxBeginner, fn func(tx *sql.Tx) error) error {
	return WithTxOptions(ctx, db, nil, fn)
}

// WithTxOptions はoptsで分離レベル等を指定してWithTxと同じ処理を行う。
// optsがnilの場合はドライバのデフォルト（PostgreSQLではREAD COMMITTED）になる。
func WithTxOptions(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
