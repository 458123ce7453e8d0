package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
	"github.com/hitoshi/postboard/internal/testing/fixtures"
	"github.com/hitoshi/postboard/internal/testing/testdb"
)

func ptr[T any](v T) *T { return &v }

func TestPostgresUserRepo_CreateAndGetByID(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewPostgresUserRepo(tdb.DB)
	ctx := tdb.Context(t)

	in := fixtures.UserData(fixtures.WithEmail("alice@example.com"))
	in.Level = 42
	in.BirthDate = model.NewDate(1985, time.March, 14)

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, in.Username, created.Username)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, 42, created.Level)
	assert.Equal(t, in.Height, created.Height)
	assert.True(t, created.IsActive)
	assert.Equal(t, in.BirthDate, created.BirthDate)
	assert.Empty(t, created.Posts)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestPostgresUserRepo_Create_DuplicateEmail(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewPostgresUserRepo(tdb.DB)
	ctx := tdb.Context(t)

	_, err := repo.Create(ctx, fixtures.UserData(fixtures.WithEmail("dup@example.com")))
	require.NoError(t, err)

	_, err = repo.Create(ctx, fixtures.UserData(fixtures.WithEmail("dup@example.com")))
	var exists *model.EntityAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "User already exists.", err.Error())

	assert.Equal(t, 1, tdb.Count(t, `"user"`))
}

func TestPostgresUserRepo_Create_CheckViolationIsDatabaseError(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewPostgresUserRepo(tdb.DB)

	in := fixtures.UserData()
	in.Level = 500

	_, err := repo.Create(tdb.Context(t), in)
	var dbErr *model.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "insert", dbErr.Operation)
}

func TestPostgresUserRepo_GetByID_NotFound(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewPostgresUserRepo(tdb.DB)

	tests := []struct {
		name string
		id   string
	}{
		{"未登録のUUID", "0190a3c0-0000-7000-8000-000000000000"},
		{"UUIDでない文字列", "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.GetByID(tdb.Context(t), tt.id)
			var notFound *model.EntityNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, "User", notFound.EntityType)
			assert.Equal(t, tt.id, notFound.EntityID)
		})
	}
}

func TestPostgresUserRepo_GetAll(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := f.Users
	ctx := tdb.Context(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, f.CreateUser(t).ID)
	}

	t.Run("ページ指定なしは全件", func(t *testing.T) {
		res, err := repo.GetAll(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 3, res.Limit)
		require.Len(t, res.Items, 3)
		for i, u := range res.Items {
			assert.Equal(t, ids[i], u.ID, "作成順に並ぶこと")
		}
	})

	t.Run("ページ指定", func(t *testing.T) {
		res, err := repo.GetAll(ctx, &model.PaginationParams{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 1, res.Limit)
		require.Len(t, res.Items, 1)
		assert.Equal(t, ids[2], res.Items[0].ID)
	})

	t.Run("範囲外のページは空", func(t *testing.T) {
		res, err := repo.GetAll(ctx, &model.PaginationParams{Page: 10, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 0, res.Limit)
		assert.Empty(t, res.Items)
	})

	t.Run("不正なページ指定", func(t *testing.T) {
		_, err := repo.GetAll(ctx, &model.PaginationParams{Page: 0, Limit: 2})
		var invalid *model.ValidationError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestPostgresUserRepo_GetAll_Empty(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewPostgresUserRepo(tdb.DB)

	res, err := repo.GetAll(tdb.Context(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Limit)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestPostgresUserRepo_Update(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := f.Users
	ctx := tdb.Context(t)

	user := f.CreateUser(t)

	t.Run("指定フィールドのみ更新", func(t *testing.T) {
		updated, err := repo.Update(ctx, user.ID, model.UserUpdate{Height: ptr(182.5)})
		require.NoError(t, err)
		assert.Equal(t, 182.5, updated.Height)
		assert.Equal(t, user.Username, updated.Username)
		assert.Equal(t, user.Email, updated.Email)
	})

	t.Run("空の更新は現在の状態を返す", func(t *testing.T) {
		before, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)

		got, err := repo.Update(ctx, user.ID, model.UserUpdate{})
		require.NoError(t, err)
		assert.Equal(t, before, got)
	})

	t.Run("メール重複", func(t *testing.T) {
		other := f.CreateUser(t)
		_, err := repo.Update(ctx, user.ID, model.UserUpdate{Email: ptr(other.Email)})
		var exists *model.EntityAlreadyExistsError
		require.ErrorAs(t, err, &exists)

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("存在しないID", func(t *testing.T) {
		_, err := repo.Update(ctx, "0190a3c0-0000-7000-8000-000000000000", model.UserUpdate{Username: ptr("x")})
		var notFound *model.EntityNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("存在しないIDへの空の更新", func(t *testing.T) {
		_, err := repo.Update(ctx, "0190a3c0-0000-7000-8000-000000000000", model.UserUpdate{})
		var notFound *model.EntityNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestPostgresUserRepo_Delete(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := f.Users
	ctx := tdb.Context(t)

	user := f.CreateUser(t)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	var notFound *model.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)

	err = repo.Delete(ctx, user.ID)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "User "+user.ID+" not found.", err.Error())

	err = repo.Delete(ctx, "not-a-uuid")
	require.ErrorAs(t, err, &notFound)
}

// ユーザー削除で投稿と投稿タグの関連もCASCADE削除され、タグ行は残る。
func TestPostgresUserRepo_Delete_CascadesPosts(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	ctx := tdb.Context(t)

	user := f.CreateUser(t)
	post := f.CreatePost(t, user, fixtures.WithTags("go", "sql"))

	require.NoError(t, f.Users.Delete(ctx, user.ID))

	_, err := f.Posts.GetByID(ctx, post.ID)
	var notFound *model.EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 0, tdb.Count(t, "post_tags"))
	assert.Equal(t, 2, tdb.Count(t, "tag"))
}

func TestPostgresUserRepo_LoadsPostsWithTags(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	ctx := tdb.Context(t)

	user := f.CreateUser(t)
	other := f.CreateUser(t)
	first := f.CreatePost(t, user, fixtures.WithTags("sql", "go"))
	second := f.CreatePost(t, user)
	f.CreatePost(t, other)

	got, err := f.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Posts, 2)
	assert.Equal(t, first.ID, got.Posts[0].ID)
	assert.Equal(t, []string{"go", "sql"}, got.Posts[0].Tags)
	assert.Nil(t, got.Posts[0].Author, "ユーザー配下の投稿は投稿者を持たない")
	assert.Equal(t, second.ID, got.Posts[1].ID)
	assert.Empty(t, got.Posts[1].Tags)

	all, err := f.Users.GetAll(ctx, nil, model.WithAuthor(false))
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Len(t, all.Items[0].Posts, 2)
	assert.Len(t, all.Items[1].Posts, 1)
}
