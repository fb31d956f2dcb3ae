package todo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nextday/internal/models"
	"nextday/internal/notify"
)

// List は1つのリストに属するTodoと、編集中・タイマー対象の状態を持ちます。
type List struct {
	api      TodoAPI
	notifier notify.Notifier
	logger   *zap.Logger

	listID int
	todos  []models.Todo
	draft  string

	editing     bool
	editID      int
	editContent string

	timerTarget int
	hasTarget   bool
}

func NewList(api TodoAPI, n notify.Notifier, logger *zap.Logger) *List {
	return &List{api: api, notifier: n, logger: logger}
}

func (l *List) ListID() int { return l.listID }

// Todos は表示中のTodoのコピーを返します。
func (l *List) Todos() []models.Todo {
	return append([]models.Todo(nil), l.todos...)
}

// Find は表示中のTodoを id で探します。
func (l *List) Find(id int) (models.Todo, bool) {
	for _, t := range l.todos {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

func (l *List) Draft() string         { return l.draft }
func (l *List) SetDraft(draft string) { l.draft = draft }

// Load はユーザーの全Todoを取得し、listID に属するものだけを残します。
// リストが切り替わった場合は編集状態とタイマー対象を破棄します。失敗時は状態を変えません。
func (l *List) Load(ctx context.Context, listID int) error {
	all, err := l.api.ListTodos(ctx)
	if err != nil {
		l.logger.Debug("load todos failed", zap.Int("list_id", listID), zap.Error(err))
		l.notifier.Error("Failed to fetch todos")
		return fmt.Errorf("load todos: %w", err)
	}

	todos := make([]models.Todo, 0, len(all))
	for _, t := range all {
		if t.ListID == listID {
			todos = append(todos, t)
		}
	}
	if listID != l.listID {
		l.CancelEdit()
		l.timerTarget, l.hasTarget = 0, false
		l.draft = ""
	}
	l.listID = listID
	l.todos = todos
	return nil
}

// Add はTodoを作成して末尾に追加し、入力欄を空にします。
func (l *List) Add(ctx context.Context, content string) (*models.Todo, error) {
	if blank(content) {
		return nil, ErrBlankContent
	}
	created, err := l.api.CreateTodo(ctx, l.listID, content)
	if err != nil {
		l.logger.Debug("create todo failed", zap.Int("list_id", l.listID), zap.Error(err))
		l.notifier.Error("Failed to create todo")
		return nil, fmt.Errorf("create todo: %w", err)
	}
	l.todos = append(l.todos, *created)
	l.draft = ""
	l.notifier.Success("Todo created successfully")
	return created, nil
}

// Toggle は完了状態を変更し、サーバーの応答を該当Todoにマージします。
// announce が false の場合は成功通知を出しません (タイマー完了時用)。
func (l *List) Toggle(ctx context.Context, id int, completed, announce bool) (*models.Todo, error) {
	return l.toggle(ctx, id, completed, announce, "Failed to update todo")
}

func (l *List) toggle(ctx context.Context, id int, completed, announce bool, failure string) (*models.Todo, error) {
	updated, err := l.api.UpdateTodo(ctx, id, models.UpdateTodoRequest{Completed: &completed})
	if err != nil {
		l.logger.Debug("toggle todo failed", zap.Int("todo_id", id), zap.Error(err))
		l.notifier.Error(failure)
		return nil, fmt.Errorf("update todo: %w", err)
	}
	l.merge(id, updated)
	if announce {
		state := "incomplete"
		if completed {
			state = "completed"
		}
		l.notifier.Success("Todo marked as " + state)
	}
	return updated, nil
}

// Editing は編集中のTodoと入力中の内容を返します。
func (l *List) Editing() (id int, content string, ok bool) {
	return l.editID, l.editContent, l.editing
}

// BeginEdit は編集モードに入ります。入力欄は現在の内容で始まります。
func (l *List) BeginEdit(id int) error {
	t, ok := l.Find(id)
	if !ok {
		return ErrUnknownTodo
	}
	l.editing, l.editID, l.editContent = true, id, t.Content
	return nil
}

func (l *List) SetEditContent(content string) {
	if l.editing {
		l.editContent = content
	}
}

func (l *List) CancelEdit() {
	l.editing, l.editID, l.editContent = false, 0, ""
}

// SaveEdit は編集内容を保存します。失敗した場合は編集モードのままにして再試行できるようにします。
func (l *List) SaveEdit(ctx context.Context) (*models.Todo, error) {
	if !l.editing {
		return nil, ErrNotEditing
	}
	if blank(l.editContent) {
		return nil, ErrBlankContent
	}
	content := l.editContent
	updated, err := l.api.UpdateTodo(ctx, l.editID, models.UpdateTodoRequest{Content: &content})
	if err != nil {
		l.logger.Debug("edit todo failed", zap.Int("todo_id", l.editID), zap.Error(err))
		l.notifier.Error("Failed to update todo")
		return nil, fmt.Errorf("update todo: %w", err)
	}
	l.merge(l.editID, updated)
	l.CancelEdit()
	l.notifier.Success("Todo updated successfully")
	return updated, nil
}

// Delete はサーバーで削除できた後にだけローカルから取り除きます。
func (l *List) Delete(ctx context.Context, id int) error {
	if err := l.api.DeleteTodo(ctx, id); err != nil {
		l.logger.Debug("delete todo failed", zap.Int("todo_id", id), zap.Error(err))
		l.notifier.Error("Failed to delete todo")
		return fmt.Errorf("delete todo: %w", err)
	}
	kept := make([]models.Todo, 0, len(l.todos))
	for _, t := range l.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	l.todos = kept
	if l.editing && l.editID == id {
		l.CancelEdit()
	}
	if l.hasTarget && l.timerTarget == id {
		l.timerTarget, l.hasTarget = 0, false
	}
	l.notifier.Success("Todo deleted successfully")
	return nil
}

// TimerTarget はポモドーロの対象Todoを返します。
func (l *List) TimerTarget() (id int, ok bool) {
	return l.timerTarget, l.hasTarget
}

// StartTimer は未完了のTodoをタイマーの対象にします。同時に対象になれるのは1件だけです。
func (l *List) StartTimer(id int) error {
	t, ok := l.Find(id)
	if !ok {
		return ErrUnknownTodo
	}
	if t.Completed {
		return ErrTodoCompleted
	}
	l.timerTarget, l.hasTarget = id, true
	return nil
}

// ClearTimer はタイマーを閉じたときに対象を外します。
func (l *List) ClearTimer() {
	l.timerTarget, l.hasTarget = 0, false
}

// CompleteTimed はタイマー完了時のコールバックです。対象を完了にし、成功したら対象を外します。
// タイマー側が完了を通知済みなので成功通知は出しません。
func (l *List) CompleteTimed(ctx context.Context) error {
	if !l.hasTarget {
		return nil
	}
	if _, err := l.toggle(ctx, l.timerTarget, true, false, "Failed to complete todo after timer"); err != nil {
		return err
	}
	l.timerTarget, l.hasTarget = 0, false
	return nil
}

func (l *List) merge(id int, updated *models.Todo) {
	for i := range l.todos {
		if l.todos[i].ID == id {
			l.todos[i] = *updated
			return
		}
	}
}
