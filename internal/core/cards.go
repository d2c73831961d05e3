package core

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"taskboard/internal/store"
	"taskboard/internal/validate"
)

// ListCards returns the cards belonging to a list.
func (s *Service) ListCards(ctx context.Context, listID string) ([]Card, error) {
	sql, args, err := psql.
		Select("id", "title", "description", "due_date").
		From("cards").
		Where(sq.Eq{"list_id": listID}).
		ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build cards query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list cards", Err: err}
	}
	cards, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[Card])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan cards", Err: err}
	}
	return cards, nil
}

// CreateCard validates the payload and inserts a card under the list named
// by the URL path. Description and due date are optional and stored as NULL
// when absent.
func (s *Service) CreateCard(ctx context.Context, body map[string]any, listID string) (Card, error) {
	rec := cardNormalizer.Apply(body, pathValues("list_id", listID))
	if err := checkRules(cardRules, rec); err != nil {
		return Card{}, err
	}

	description := pgtype.Text{}
	if v, ok := rec["description"].(string); ok {
		description = pgtype.Text{String: v, Valid: true}
	}

	dueDate := pgtype.Date{}
	if v, ok := rec["due_date"].(string); ok {
		// Already validated by the rule table; parse cannot fail here.
		t, err := validate.ParseDate(v)
		if err != nil {
			return Card{}, &ValidationFailure{Violations: []validate.Violation{
				{Field: "due_date", Value: v, Message: "must be a valid date (use YYYY-MM-DD)"},
			}}
		}
		dueDate = pgtype.Date{Time: t, Valid: true}
	}

	sql, args, err := psql.Insert("cards").
		Columns("title", "description", "due_date", "list_id").
		Values(rec["title"], description, dueDate, rec["list_id"]).
		Suffix("RETURNING id, title, description, due_date, list_id").
		ToSql()
	if err != nil {
		return Card{}, &store.QueryFailure{Op: "build card insert", Err: err}
	}

	var card Card
	row := s.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&card.ID, &card.Title, &card.Description, &card.DueDate, &card.ListID); err != nil {
		return Card{}, &store.QueryFailure{Op: "insert card", Err: err}
	}
	return card, nil
}

// ListCardUsers returns the users associated with a card.
func (s *Service) ListCardUsers(ctx context.Context, cardID string) ([]CardUser, error) {
	sql, args, err := psql.
		Select("user_id", "is_owner").
		From("card_users").
		Where(sq.Eq{"card_id": cardID}).
		ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build card users query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list card users", Err: err}
	}
	owners, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[CardUser])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan card users", Err: err}
	}
	return owners, nil
}

// AddCardUser validates the payload and inserts a card-user association.
// The card id always comes from the URL path.
func (s *Service) AddCardUser(ctx context.Context, body map[string]any, cardID string) (CardUser, error) {
	rec := cardUserNormalizer.Apply(body, pathValues("card_id", cardID))
	if err := checkRules(cardUserRules, rec); err != nil {
		return CardUser{}, err
	}

	sql, args, err := psql.Insert("card_users").
		Columns("card_id", "user_id", "is_owner").
		Values(rec["card_id"], rec["user_id"], rec["is_owner"]).
		Suffix("RETURNING card_id, user_id, is_owner").
		ToSql()
	if err != nil {
		return CardUser{}, &store.QueryFailure{Op: "build card user insert", Err: err}
	}

	var owner CardUser
	row := s.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&owner.CardID, &owner.UserID, &owner.IsOwner); err != nil {
		return CardUser{}, &store.QueryFailure{Op: "insert card user", Err: err}
	}
	return owner, nil
}
