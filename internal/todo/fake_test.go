package todo_test

import (
	"context"
	"errors"
	"time"

	"nextday/internal/apiclient"
	"nextday/internal/models"
)

// fakeAPI はメモリ上で動く ListAPI / TodoAPI です。fail に名前を入れるとその操作が失敗します。
type fakeAPI struct {
	lists  []models.TodoList
	todos  []models.Todo
	nextID int
	calls  map[string]int
	fail   map[string]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1, calls: map[string]int{}, fail: map[string]bool{}}
}

var errBoom = &apiclient.RequestError{Method: "X", Path: "/", StatusCode: 500}

func (f *fakeAPI) call(name string) error {
	f.calls[name]++
	if f.fail[name] {
		return errBoom
	}
	return nil
}

func (f *fakeAPI) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeAPI) ListTodoLists(context.Context) ([]models.TodoList, error) {
	if err := f.call("ListTodoLists"); err != nil {
		return nil, err
	}
	return append([]models.TodoList(nil), f.lists...), nil
}

func (f *fakeAPI) CreateTodoList(_ context.Context, name string) (*models.TodoList, error) {
	if err := f.call("CreateTodoList"); err != nil {
		return nil, err
	}
	l := models.TodoList{ID: f.id(), Name: name, OwnerID: 1, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.lists = append(f.lists, l)
	return &l, nil
}

func (f *fakeAPI) RenameTodoList(_ context.Context, id int, name string) (*models.TodoList, error) {
	if err := f.call("RenameTodoList"); err != nil {
		return nil, err
	}
	for i := range f.lists {
		if f.lists[i].ID == id {
			f.lists[i].Name = name
			l := f.lists[i]
			return &l, nil
		}
	}
	return nil, &apiclient.RequestError{StatusCode: 404}
}

func (f *fakeAPI) DeleteTodoList(_ context.Context, id int) error {
	if err := f.call("DeleteTodoList"); err != nil {
		return err
	}
	var kept []models.TodoList
	for _, l := range f.lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	f.lists = kept
	return nil
}

func (f *fakeAPI) ListTodos(context.Context) ([]models.Todo, error) {
	if err := f.call("ListTodos"); err != nil {
		return nil, err
	}
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, listID int, content string) (*models.Todo, error) {
	if err := f.call("CreateTodo"); err != nil {
		return nil, err
	}
	t := models.Todo{ID: f.id(), Content: content, ListID: listID, OwnerID: 1}
	f.todos = append(f.todos, t)
	return &t, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id int, patch models.UpdateTodoRequest) (*models.Todo, error) {
	if err := f.call("UpdateTodo"); err != nil {
		return nil, err
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			if patch.Completed != nil {
				f.todos[i].Completed = *patch.Completed
			}
			if patch.Content != nil {
				f.todos[i].Content = *patch.Content
			}
			f.todos[i].UpdatedAt = time.Now()
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, &apiclient.RequestError{StatusCode: 404}
}

func (f *fakeAPI) DeleteTodo(_ context.Context, id int) error {
	if err := f.call("DeleteTodo"); err != nil {
		return err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return &apiclient.RequestError{StatusCode: 404}
}

func isRequestFailed(err error) bool {
	return errors.Is(err, apiclient.ErrRequestFailed)
}
