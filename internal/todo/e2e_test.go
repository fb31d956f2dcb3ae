package todo_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextday/internal/apiclient"
	"nextday/internal/notify"
	"nextday/internal/todo"
	"nextday/testutil"
)

func TestEndToEnd_CreateToggleAgainstServer(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx := context.Background()
	client := apiclient.New(srv.URL, "", zap.NewNop())
	_, err := client.Login(ctx, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)

	rec := &notify.Recorder{}
	manager := todo.NewManager(client, rec, zap.NewNop())
	list := todo.NewList(client, rec, zap.NewNop())
	manager.OnSelectionChange = func(id int, ok bool) {
		if ok {
			require.NoError(t, list.Load(ctx, id))
		}
	}

	require.NoError(t, manager.Load(ctx))
	work, err := manager.Create(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, list.ListID(), "selection change must load the detail component")

	report, err := list.Add(ctx, "Write report")
	require.NoError(t, err)
	other, err := list.Add(ctx, "Book flights")
	require.NoError(t, err)

	_, err = list.Toggle(ctx, report.ID, true, true)
	require.NoError(t, err)

	all, err := client.ListTodos(ctx)
	require.NoError(t, err)
	completed := map[int]bool{}
	for _, td := range all {
		completed[td.ID] = td.Completed
	}
	assert.True(t, completed[report.ID])
	assert.False(t, completed[other.ID])

	t.Run("Timer completion against the server", func(t *testing.T) {
		require.NoError(t, list.StartTimer(other.ID))
		require.NoError(t, list.CompleteTimed(ctx))
		td, _ := list.Find(other.ID)
		assert.True(t, td.Completed)
	})

	t.Run("Deleting the list cascades on the server", func(t *testing.T) {
		manager.RequestDelete(work.ID)
		require.NoError(t, manager.ConfirmDelete(ctx))
		_, ok := manager.Selection()
		assert.False(t, ok)

		all, err := client.ListTodos(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
