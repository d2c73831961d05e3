package core

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"taskboard/internal/store"
)

// ListBoards returns every board together with its admin user.
func (s *Service) ListBoards(ctx context.Context) ([]BoardSummary, error) {
	sql, args, err := psql.
		Select("b.id", "b.name", "bu.userId AS admin_user_id").
		From("boards b").
		Join("board_users bu ON bu.boardId = b.id").
		Where("bu.isAdmin IS TRUE").
		ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build boards query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list boards", Err: err}
	}
	boards, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[BoardSummary])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan boards", Err: err}
	}
	return boards, nil
}

// CreateBoard inserts a board and its admin association atomically. The
// payload is validated before the transaction scope opens, so doomed
// requests never hold a dedicated connection; once open, any failure rolls
// the whole scope back and no orphan board survives.
func (s *Service) CreateBoard(ctx context.Context, body map[string]any) (Board, error) {
	rec := boardNormalizer.Apply(body, nil)
	if err := checkRules(boardRules, rec); err != nil {
		return Board{}, err
	}

	var board Board
	err := store.WithinTx(ctx, s.db, func(tx *store.Tx) error {
		b, err := insertBoard(ctx, tx, rec["name"])
		if err != nil {
			return err
		}
		if err := writeAdminAssociation(ctx, tx, b.ID, rec["adminUserId"]); err != nil {
			return err
		}
		board = b
		return nil
	})
	if err != nil {
		return Board{}, err
	}
	return board, nil
}

// insertBoard writes the parent board row on the open scope.
func insertBoard(ctx context.Context, tx *store.Tx, name any) (Board, error) {
	sql, args, err := psql.Insert("boards").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name").
		ToSql()
	if err != nil {
		return Board{}, &store.QueryFailure{Op: "build board insert", Err: err}
	}

	var board Board
	if err := tx.QueryRow(ctx, sql, args...).Scan(&board.ID, &board.Name); err != nil {
		return Board{}, &store.QueryFailure{Op: "insert board", Err: err}
	}
	return board, nil
}

// writeAdminAssociation pairs a freshly inserted board with its required
// admin row on the same scope. If this insert fails the board insert is
// rolled back with it.
func writeAdminAssociation(ctx context.Context, tx *store.Tx, boardID string, adminUserID any) error {
	sql, args, err := psql.Insert("board_users").
		Columns("boardId", "userId", "isAdmin").
		Values(boardID, adminUserID, true).
		ToSql()
	if err != nil {
		return &store.QueryFailure{Op: "build board admin insert", Err: err}
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return &store.QueryFailure{Op: "insert board admin", Err: err}
	}
	return nil
}

// ListBoardUsers returns the users associated with a board.
func (s *Service) ListBoardUsers(ctx context.Context, boardID string) ([]BoardUser, error) {
	sql, args, err := psql.
		Select("id", "boardId AS board_id", "userId AS user_id", "isAdmin AS is_admin").
		From("board_users").
		Where(sq.Eq{"boardId": boardID}).
		ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build board users query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list board users", Err: err}
	}
	members, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[BoardUser])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan board users", Err: err}
	}
	return members, nil
}

// AddBoardUser validates the payload and inserts a board-user association.
// The board id always comes from the URL path, overriding any same-named
// body field.
func (s *Service) AddBoardUser(ctx context.Context, body map[string]any, boardID string) (BoardUser, error) {
	rec := boardUserNormalizer.Apply(body, pathValues("boardId", boardID))
	if err := checkRules(boardUserRules, rec); err != nil {
		return BoardUser{}, err
	}

	sql, args, err := psql.Insert("board_users").
		Columns("boardId", "userId", "isAdmin").
		Values(rec["boardId"], rec["userId"], rec["isAdmin"]).
		Suffix("RETURNING id, boardId, userId, isAdmin").
		ToSql()
	if err != nil {
		return BoardUser{}, &store.QueryFailure{Op: "build board user insert", Err: err}
	}

	var member BoardUser
	row := s.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&member.ID, &member.BoardID, &member.UserID, &member.IsAdmin); err != nil {
		return BoardUser{}, &store.QueryFailure{Op: "insert board user", Err: err}
	}
	return member, nil
}
