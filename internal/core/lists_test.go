package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listID = "3c9d0a1b-5e6f-4a7b-8c9d-0e1f2a3b4c5d"

func TestCreateList_PathBoardIDOverridesBody(t *testing.T) {
	db := &fakeDB{rowFn: func(sql string, args []any) fakeRow {
		return fakeRow{values: []any{listID, "Backlog", boardID}}
	}}
	svc := NewService(db)

	list, err := svc.CreateList(context.Background(), map[string]any{
		"name":     "Backlog",
		"board_id": "11111111-1111-4111-8111-111111111111",
	}, boardID)

	require.NoError(t, err)
	assert.Equal(t, boardID, list.BoardID)

	require.Len(t, db.stmts, 1)
	assert.Equal(t, []any{"Backlog", boardID}, db.stmts[0].args, "the list must be created under the path's board")
}

func TestCreateList_CamelCaseBodyFieldIsNormalized(t *testing.T) {
	db := &fakeDB{rowFn: func(sql string, args []any) fakeRow {
		return fakeRow{values: []any{listID, "Backlog", boardID}}
	}}
	svc := NewService(db)

	// No path value here; the aliased body field carries the linkage.
	_, err := svc.CreateList(context.Background(), map[string]any{
		"name":    "Backlog",
		"boardId": boardID,
	}, "")

	require.NoError(t, err)
	require.Len(t, db.stmts, 1)
	assert.Equal(t, []any{"Backlog", boardID}, db.stmts[0].args)
}

func TestCreateList_NameRules(t *testing.T) {
	svc := NewService(&fakeDB{})

	tests := []struct {
		name     string
		listName any
	}{
		{"digits rejected", "Sprint1"},
		{"punctuation rejected", "To-Do"},
		{"too short", "Todo"},
		{"too long", "abcdefghijklmnopqrstuvwxyzabcde"},
		{"not a string", 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateList(context.Background(), map[string]any{
				"name": tt.listName,
			}, boardID)

			var vf *ValidationFailure
			require.ErrorAs(t, err, &vf)
			require.Len(t, vf.Violations, 1)
			assert.Equal(t, "name", vf.Violations[0].Field)
		})
	}
}

func TestListLists_ReturnsBoardLists(t *testing.T) {
	db := &fakeDB{rowsFn: func() *fakeRows {
		return &fakeRows{
			cols: []string{"id", "name"},
			data: [][]any{{listID, "Backlog"}},
		}
	}}
	svc := NewService(db)

	lists, err := svc.ListLists(context.Background(), boardID)

	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Backlog", lists[0].Name)

	require.Len(t, db.stmts, 1)
	assert.Equal(t, []any{boardID}, db.stmts[0].args)
}
