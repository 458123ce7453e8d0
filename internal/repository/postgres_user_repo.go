package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/postboard/internal/database"
	"github.com/hitoshi/postboard/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	*pgStore[model.User, model.UserCreate, model.UserUpdate]
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{pgStore: newPGStore(db, userMapper())}
}

var _ UserRepository = (*PostgresUserRepo)(nil)

func userMapper() entityMapper[model.User, model.UserCreate, model.UserUpdate] {
	return entityMapper[model.User, model.UserCreate, model.UserUpdate]{
		entityType: "User",
		table:      `"user"`,
		columns:    []string{"id", "username", "email", "level", "height", "is_active", "birth_date"},
		scan:       scanUser,
		insertColumns: []string{
			"username", "email", "level", "height", "is_active", "birth_date",
		},
		insertValues: func(in model.UserCreate) []any {
			return []any{in.Username, in.Email, in.Level, in.Height, in.IsActive, in.BirthDate}
		},
		updateAssignments: func(in model.UserUpdate) ([]string, []any) {
			var columns []string
			var args []any
			if in.Username != nil {
				columns = append(columns, "username")
				args = append(args, *in.Username)
			}
			if in.Email != nil {
				columns = append(columns, "email")
				args = append(args, *in.Email)
			}
			if in.Height != nil {
				columns = append(columns, "height")
				args = append(args, *in.Height)
			}
			return columns, args
		},
		loadRelations: loadUserPosts,
	}
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Level, &u.Height, &u.IsActive, &u.BirthDate); err != nil {
		return nil, err
	}
	return u, nil
}

// loadUserPosts はユーザーの投稿一覧をタグ付きで埋める。
// 投稿側の投稿者射影は読み込まない。読み込みオプションは参照しない。
func loadUserPosts(ctx context.Context, q database.Querier, users []*model.User, _ model.LoadOptions) error {
	ids := make([]string, len(users))
	byID := make(map[string]*model.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
		u.Posts = []model.Post{}
	}

	posts, err := findPostsByAuthors(ctx, q, ids)
	if err != nil {
		return err
	}
	if err := loadPostTags(ctx, q, posts); err != nil {
		return err
	}

	for _, p := range posts {
		if u, ok := byID[p.AuthorID]; ok {
			u.Posts = append(u.Posts, *p)
		}
	}
	return nil
}
