package crud

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/postboard/internal/metrics"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
)

// OperationRecorder はリポジトリ操作の計測結果を受け取る。
// metrics.Collectorが満たす。
type OperationRecorder interface {
	RecordOperation(entity, operation, outcome string, duration time.Duration)
}

type instrumented[E, C, U any] struct {
	next     repository.Repository[E, C, U]
	entity   string
	recorder OperationRecorder
	now      func() time.Time
}

// Instrument はリポジトリの各操作の結果とレイテンシを記録するデコレータを返す。
// recorderがnilの場合はrepoをそのまま返す。
func Instrument[E, C, U any](repo repository.Repository[E, C, U], entity string, recorder OperationRecorder) repository.Repository[E, C, U] {
	if recorder == nil {
		return repo
	}
	return &instrumented[E, C, U]{next: repo, entity: entity, recorder: recorder, now: time.Now}
}

func (r *instrumented[E, C, U]) GetAll(ctx context.Context, p *model.PaginationParams, opts ...model.LoadOption) (*model.PaginatedResult[E], error) {
	start := r.now()
	res, err := r.next.GetAll(ctx, p, opts...)
	r.record("get_all", start, err)
	return res, err
}

func (r *instrumented[E, C, U]) GetByID(ctx context.Context, id string, opts ...model.LoadOption) (*E, error) {
	start := r.now()
	e, err := r.next.GetByID(ctx, id, opts...)
	r.record("get", start, err)
	return e, err
}

func (r *instrumented[E, C, U]) Create(ctx context.Context, in C) (*E, error) {
	start := r.now()
	e, err := r.next.Create(ctx, in)
	r.record("create", start, err)
	return e, err
}

func (r *instrumented[E, C, U]) Update(ctx context.Context, id string, in U) (*E, error) {
	start := r.now()
	e, err := r.next.Update(ctx, id, in)
	r.record("update", start, err)
	return e, err
}

func (r *instrumented[E, C, U]) Delete(ctx context.Context, id string) error {
	start := r.now()
	err := r.next.Delete(ctx, id)
	r.record("delete", start, err)
	return err
}

func (r *instrumented[E, C, U]) record(operation string, start time.Time, err error) {
	r.recorder.RecordOperation(r.entity, operation, outcomeOf(err), r.now().Sub(start))
}

// outcomeOf はエラーを計測用の結果ラベルに分類する。
func outcomeOf(err error) string {
	var (
		notFound *model.EntityNotFoundError
		exists   *model.EntityAlreadyExistsError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &notFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &exists):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
