package core

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"taskboard/internal/store"
)

// ListLists returns the lists belonging to a board.
func (s *Service) ListLists(ctx context.Context, boardID string) ([]List, error) {
	sql, args, err := psql.
		Select("id", "name").
		From("lists").
		Where(sq.Eq{"board_id": boardID}).
		ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build lists query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list lists", Err: err}
	}
	lists, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[List])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan lists", Err: err}
	}
	return lists, nil
}

// CreateList validates the payload and inserts a list under the board named
// by the URL path. A different board_id in the body is overridden.
func (s *Service) CreateList(ctx context.Context, body map[string]any, boardID string) (List, error) {
	rec := listNormalizer.Apply(body, pathValues("board_id", boardID))
	if err := checkRules(listRules, rec); err != nil {
		return List{}, err
	}

	sql, args, err := psql.Insert("lists").
		Columns("name", "board_id").
		Values(rec["name"], rec["board_id"]).
		Suffix("RETURNING id, name, board_id").
		ToSql()
	if err != nil {
		return List{}, &store.QueryFailure{Op: "build list insert", Err: err}
	}

	var list List
	row := s.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&list.ID, &list.Name, &list.BoardID); err != nil {
		return List{}, &store.QueryFailure{Op: "insert list", Err: err}
	}
	return list, nil
}
