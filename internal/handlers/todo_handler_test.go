package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextday/internal/models"
	"nextday/testutil"
)

func TestCreateTodo_Success(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)
	list := testutil.CreateTestList(t, r, token, "Work")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/todos", token, map[string]any{"content": "Write report", "listId": list.ID})

	assert.Equal(t, http.StatusOK, w.Code, "Expected HTTP Status Code 200 OK")
	var createdTodo models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createdTodo), "Response should be a valid JSON todo object")

	assert.NotZero(t, createdTodo.ID, "Expected a non-zero Todo ID")
	assert.Equal(t, "Write report", createdTodo.Content)
	assert.False(t, createdTodo.Completed, "Expected completed to be false")
	assert.Equal(t, list.ID, createdTodo.ListID)
	assert.Equal(t, 1, createdTodo.OwnerID)
	assert.NotZero(t, createdTodo.CreatedAt, "Expected CreatedAt to be set")
	assert.NotZero(t, createdTodo.UpdatedAt, "Expected UpdatedAt to be set")
}

func TestCreateTodo_Validation(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)
	otherToken, err := testutil.LoginAndGetToken(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	require.NoError(t, err)
	list := testutil.CreateTestList(t, r, token, "Work")

	t.Run("Blank content is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/todos", token, map[string]any{"content": "  ", "listId": list.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing listId is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/todos", token, map[string]any{"content": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Another user's list is not found", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/todos", otherToken, map[string]any{"content": "x", "listId": list.ID})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetTodosHandler_Authorization(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)
	otherToken, err := testutil.LoginAndGetToken(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	require.NoError(t, err)

	work := testutil.CreateTestList(t, r, token, "Work")
	home := testutil.CreateTestList(t, r, token, "Home")
	testutil.CreateTestTodo(t, r, token, work.ID, "Write report")
	testutil.CreateTestTodo(t, r, token, home.ID, "Water plants")
	otherList := testutil.CreateTestList(t, r, otherToken, "Other")
	testutil.CreateTestTodo(t, r, otherToken, otherList.ID, "Not yours")

	t.Run("Normal user gets todos of all their lists", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/api/todos", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var todos []models.Todo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos))
		require.Len(t, todos, 2)
		for _, todo := range todos {
			assert.Equal(t, 1, todo.OwnerID)
		}
	})

	t.Run("Unauthorized user cannot get todos", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/api/todos", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateTodoHandler_Authorization(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)
	otherToken, err := testutil.LoginAndGetToken(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	require.NoError(t, err)

	list := testutil.CreateTestList(t, r, token, "Work")
	todo := testutil.CreateTestTodo(t, r, token, list.ID, "Write report")
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	t.Run("User can complete their own todo", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, token, map[string]any{"completed": true})
		require.Equal(t, http.StatusOK, w.Code)
		var updated models.Todo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.True(t, updated.Completed)
		assert.Equal(t, "Write report", updated.Content, "content must be untouched by a partial update")
	})

	t.Run("User can edit content only", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, token, map[string]any{"content": "Write final report"})
		require.Equal(t, http.StatusOK, w.Code)
		var updated models.Todo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "Write final report", updated.Content)
		assert.True(t, updated.Completed, "completed must be untouched by a partial update")
	})

	t.Run("Blank content is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, token, map[string]any{"content": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("User cannot update another user's todo", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, path, otherToken, map[string]any{"completed": false})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing todo is not found", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPatch, "/api/todos/9999", token, map[string]any{"completed": false})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteTodoHandler_Authorization(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)
	otherToken, err := testutil.LoginAndGetToken(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	require.NoError(t, err)

	list := testutil.CreateTestList(t, r, token, "Work")
	todo := testutil.CreateTestTodo(t, r, token, list.ID, "Write report")
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	t.Run("User cannot delete another user's todo", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodDelete, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("User can delete their own todo", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodDelete, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})

	t.Run("Deleted todo is gone", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/api/todos", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestTodos_EndToEndToggle(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	require.NoError(t, err)

	work := testutil.CreateTestList(t, r, token, "Work")
	report := testutil.CreateTestTodo(t, r, token, work.ID, "Write report")
	other := testutil.CreateTestTodo(t, r, token, work.ID, "Book flights")

	w := testutil.DoJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/todos/%d", report.ID), token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var todos []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos))

	byID := map[int]models.Todo{}
	for _, todo := range todos {
		byID[todo.ID] = todo
	}
	assert.True(t, byID[report.ID].Completed)
	assert.False(t, byID[other.ID].Completed)
}
