package core

import (
	"github.com/jackc/pgx/v5/pgtype"

	"taskboard/internal/validate"
)

// User is an account that can be associated with boards and cards.
type User struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Board is a top-level container of lists. A board row never exists without
// the admin association created alongside it.
type Board struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// BoardSummary is a board joined with its admin user, as returned by the
// board listing.
type BoardSummary struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	AdminUserID string `db:"admin_user_id" json:"adminUserId"`
}

// BoardUser associates a user with a board, optionally as admin.
type BoardUser struct {
	ID      string `db:"id" json:"id"`
	BoardID string `db:"board_id" json:"boardId,omitempty"`
	UserID  string `db:"user_id" json:"userId"`
	IsAdmin bool   `db:"is_admin" json:"isAdmin"`
}

// List is a column of cards belonging to exactly one board.
type List struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	BoardID string `db:"board_id" json:"board_id,omitempty"`
}

// Card is a task belonging to exactly one list.
type Card struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description pgtype.Text `db:"description" json:"description"`
	DueDate     pgtype.Date `db:"due_date" json:"due_date"`
	ListID      string      `db:"list_id" json:"list_id,omitempty"`
}

// CardUser associates a user with a card, optionally as owner.
type CardUser struct {
	CardID  string `db:"card_id" json:"card_id,omitempty"`
	UserID  string `db:"user_id" json:"user_id"`
	IsOwner bool   `db:"is_owner" json:"is_owner"`
}

// Rule tables, one per entity. Fields use the canonical wire names; the
// normalizers below fold accepted alternate spellings onto them.

var userRules = validate.RuleSet{
	{Field: "name", Rules: []validate.Rule{validate.String(), validate.Length(1, 50)}},
	{Field: "email", Rules: []validate.Rule{validate.String(), validate.Email()}},
}

var boardRules = validate.RuleSet{
	{Field: "name", Rules: []validate.Rule{validate.String(), validate.Length(1, 50)}},
	{Field: "adminUserId", Rules: []validate.Rule{validate.UUID()}},
}

var boardUserRules = validate.RuleSet{
	{Field: "boardId", Rules: []validate.Rule{validate.UUID()}},
	{Field: "userId", Rules: []validate.Rule{validate.UUID()}},
	{Field: "isAdmin", Rules: []validate.Rule{validate.Bool()}},
}

// List names are alphabetic-only by rule; digits and punctuation are
// rejected.
var listRules = validate.RuleSet{
	{Field: "name", Rules: []validate.Rule{validate.String(), validate.Alpha(), validate.Length(5, 30)}},
	{Field: "board_id", Rules: []validate.Rule{validate.UUID()}},
}

var cardRules = validate.RuleSet{
	{Field: "title", Rules: []validate.Rule{validate.String(), validate.Length(5, 50)}},
	{Field: "description", Optional: true, Rules: []validate.Rule{validate.String(), validate.Length(0, 255)}},
	{Field: "due_date", Optional: true, Rules: []validate.Rule{validate.Date()}},
	{Field: "list_id", Rules: []validate.Rule{validate.UUID()}},
}

var cardUserRules = validate.RuleSet{
	{Field: "card_id", Rules: []validate.Rule{validate.UUID()}},
	{Field: "user_id", Rules: []validate.Rule{validate.UUID()}},
	{Field: "is_owner", Rules: []validate.Rule{validate.Bool()}},
}

var (
	userNormalizer  = validate.NewNormalizer(nil)
	boardNormalizer = validate.NewNormalizer(map[string]string{
		"admin_user_id": "adminUserId",
	})
	boardUserNormalizer = validate.NewNormalizer(map[string]string{
		"board_id": "boardId",
		"user_id":  "userId",
		"is_admin": "isAdmin",
	})
	listNormalizer = validate.NewNormalizer(map[string]string{
		"boardId": "board_id",
	})
	cardNormalizer = validate.NewNormalizer(map[string]string{
		"listId":  "list_id",
		"dueDate": "due_date",
	})
	cardUserNormalizer = validate.NewNormalizer(map[string]string{
		"cardId":  "card_id",
		"userId":  "user_id",
		"isOwner": "is_owner",
	})
)
