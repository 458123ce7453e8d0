package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/postboard/internal/database"
	"github.com/hitoshi/postboard/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	*pgStore[model.Post, model.PostCreate, model.PostUpdate]
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{pgStore: newPGStore(db, postMapper())}
}

var _ PostRepository = (*PostgresPostRepo)(nil)

func postMapper() entityMapper[model.Post, model.PostCreate, model.PostUpdate] {
	return entityMapper[model.Post, model.PostCreate, model.PostUpdate]{
		entityType:    "Post",
		table:         "post",
		columns:       []string{"id", "title", "content", "author_id"},
		scan:          scanPost,
		insertColumns: []string{"title", "content", "author_id"},
		insertValues: func(in model.PostCreate) []any {
			return []any{in.Title, in.Content, in.AuthorID}
		},
		updateAssignments: func(in model.PostUpdate) ([]string, []any) {
			var columns []string
			var args []any
			if in.Title != nil {
				columns = append(columns, "title")
				args = append(args, *in.Title)
			}
			if in.Content != nil {
				columns = append(columns, "content")
				args = append(args, *in.Content)
			}
			return columns, args
		},
		beforeInsert:  ensureAuthorExists,
		afterInsert:   attachTags,
		insertError:   authorMissingError,
		loadRelations: loadPostRelations,
	}
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureAuthorExists は投稿者の存在を確認し、コミットまで削除されないよう行を共有ロックする。
func ensureAuthorExists(ctx context.Context, q database.Querier, in model.PostCreate) error {
	if !isUUID(in.AuthorID) {
		return model.NewEntityNotFoundError("User", in.AuthorID)
	}

	var id string
	err := q.QueryRowContext(ctx,
		`SELECT id FROM "user" WHERE id = $1 FOR KEY SHARE`,
		in.AuthorID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewEntityNotFoundError("User", in.AuthorID)
	}
	if err != nil {
		return fmt.Errorf("failed to find author: %w", err)
	}
	return nil
}

// authorMissingError は投稿者の外部キー違反を投稿者の未検出として扱う。
func authorMissingError(in model.PostCreate, err error) error {
	if isForeignKeyViolation(err) {
		return model.NewEntityNotFoundError("User", in.AuthorID)
	}
	return nil
}

// attachTags はタグ名ごとにタグ行を取得または作成し、投稿に関連付ける。
// タグ名の一意制約に対してON CONFLICTで競合を吸収する。
func attachTags(ctx context.Context, q database.Querier, postID string, in model.PostCreate) error {
	for _, name := range in.Tags {
		tagID, err := upsertTag(ctx, q, name)
		if err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			postID, tagID,
		); err != nil {
			return fmt.Errorf("failed to attach tag %q: %w", name, err)
		}
	}
	return nil
}

func upsertTag(ctx context.Context, q database.Querier, name string) (string, error) {
	newID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate tag id: %w", err)
	}

	var id string
	err = q.QueryRowContext(ctx,
		`INSERT INTO tag (id, name) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		newID.String(), name,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}
	return id, nil
}

// loadPostRelations は投稿のタグと、オプションに応じて投稿者射影を埋める。
func loadPostRelations(ctx context.Context, q database.Querier, posts []*model.Post, opts model.LoadOptions) error {
	if err := loadPostTags(ctx, q, posts); err != nil {
		return err
	}
	if !opts.IncludeAuthor {
		return nil
	}
	return loadPostAuthors(ctx, q, posts)
}

// findPostsByAuthors は指定ユーザー群の投稿をid昇順で返す。
func findPostsByAuthors(ctx context.Context, q database.Querier, authorIDs []string) ([]*model.Post, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, title, content, author_id FROM post
		 WHERE author_id = ANY($1::uuid[])
		 ORDER BY id`,
		pq.Array(authorIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// loadPostTags は投稿ごとのタグ名を名前順で埋める。タグがない投稿は空スライスになる。
func loadPostTags(ctx context.Context, q database.Querier, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]*model.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Tags = []string{}
	}

	rows, err := q.QueryContext(ctx,
		`SELECT pt.post_id, t.name
		 FROM post_tags pt
		 JOIN tag t ON t.id = pt.tag_id
		 WHERE pt.post_id = ANY($1::uuid[])
		 ORDER BY t.name`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, name string
		if err := rows.Scan(&postID, &name); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, name)
		}
	}
	return rows.Err()
}

// loadPostAuthors は投稿者の最小射影を埋める。
func loadPostAuthors(ctx context.Context, q database.Querier, posts []*model.Post) error {
	seen := make(map[string]bool, len(posts))
	var authorIDs []string
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, username, email FROM "user" WHERE id = ANY($1::uuid[])`,
		pq.Array(authorIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make(map[string]*model.UserMinimal, len(authorIDs))
	for rows.Next() {
		a := &model.UserMinimal{}
		if err := rows.Scan(&a.ID, &a.Username, &a.Email); err != nil {
			return fmt.Errorf("failed to scan author: %w", err)
		}
		authors[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate authors: %w", err)
	}

	for _, p := range posts {
		p.Author = authors[p.AuthorID]
	}
	return nil
}
