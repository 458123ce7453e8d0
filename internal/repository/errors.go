package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/hitoshi/postboard/internal/model"
)

// PostgreSQLのSQLSTATE。
const (
	pgUniqueViolation     pq.ErrorCode = "23505"
	pgForeignKeyViolation pq.ErrorCode = "23503"
)

// translateError は永続化層のエラーをドメインエラーに変換する。
// 既にドメインエラーであればそのまま返す。
// 一意制約違反はエラーメッセージではなくSQLSTATEで判定する。
func translateError(entityType, operation string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return model.NewEntityAlreadyExistsError(entityType)
	}

	return model.NewDatabaseError(operation, err)
}

func isDomainError(err error) bool {
	var (
		notFound *model.EntityNotFoundError
		exists   *model.EntityAlreadyExistsError
		dbErr    *model.DatabaseError
		tooMany  *model.TooManyTagsError
		invalid  *model.ValidationError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &exists) ||
		errors.As(err, &dbErr) ||
		errors.As(err, &tooMany) ||
		errors.As(err, &invalid)
}

// isForeignKeyViolation は外部キー制約違反かどうかを返す。
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}
