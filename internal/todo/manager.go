package todo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nextday/internal/models"
	"nextday/internal/notify"
)

// Manager はユーザーのリスト一覧と選択カーソルを持ちます。
// カーソルは「未選択」か「リスト id を選択中」のどちらかです。
type Manager struct {
	api      ListAPI
	notifier notify.Notifier
	logger   *zap.Logger

	lists    []models.TodoList
	selected int
	hasSel   bool

	pendingDelete int
	hasPending    bool

	// OnSelectionChange はカーソルが動いたときに呼ばれます。
	// ホストはこれを受けて List.Load を呼びます。
	OnSelectionChange func(id int, ok bool)
}

func NewManager(api ListAPI, n notify.Notifier, logger *zap.Logger) *Manager {
	return &Manager{api: api, notifier: n, logger: logger}
}

// Lists はリスト一覧のコピーを返します。
func (m *Manager) Lists() []models.TodoList {
	return append([]models.TodoList(nil), m.lists...)
}

// Selection は選択中のリスト id を返します。未選択なら ok は false です。
func (m *Manager) Selection() (id int, ok bool) {
	return m.selected, m.hasSel
}

// PendingDelete は削除確認中のリスト id を返します。
func (m *Manager) PendingDelete() (id int, ok bool) {
	return m.pendingDelete, m.hasPending
}

// Load はサーバーからリスト一覧を取得して置き換えます。
// 未選択の場合は先頭のリストを選択します。失敗時は状態を変えません。
func (m *Manager) Load(ctx context.Context) error {
	lists, err := m.api.ListTodoLists(ctx)
	if err != nil {
		m.logger.Debug("load lists failed", zap.Error(err))
		m.notifier.Error("Failed to fetch todo lists")
		return fmt.Errorf("load lists: %w", err)
	}
	m.lists = lists
	if !m.hasSel && len(lists) > 0 {
		m.setSelection(lists[0].ID, true)
	}
	return nil
}

// Create はリストを作成して末尾に追加します。空白だけの名前はサーバーに送りません。
func (m *Manager) Create(ctx context.Context, name string) (*models.TodoList, error) {
	if blank(name) {
		return nil, ErrBlankName
	}
	list, err := m.api.CreateTodoList(ctx, name)
	if err != nil {
		m.logger.Debug("create list failed", zap.Error(err))
		m.notifier.Error("Failed to create list")
		return nil, fmt.Errorf("create list: %w", err)
	}
	m.lists = append(m.lists, *list)
	m.notifier.Success("List created successfully")
	if !m.hasSel {
		m.setSelection(list.ID, true)
	}
	return list, nil
}

// Rename はリスト名を変更し、一覧の該当要素をその場で置き換えます。
func (m *Manager) Rename(ctx context.Context, id int, name string) (*models.TodoList, error) {
	if blank(name) {
		return nil, ErrBlankName
	}
	list, err := m.api.RenameTodoList(ctx, id, name)
	if err != nil {
		m.logger.Debug("rename list failed", zap.Int("list_id", id), zap.Error(err))
		m.notifier.Error("Failed to rename list")
		return nil, fmt.Errorf("rename list: %w", err)
	}
	for i := range m.lists {
		if m.lists[i].ID == id {
			m.lists[i] = *list
		}
	}
	m.notifier.Success("List renamed successfully")
	return list, nil
}

// RequestDelete は削除の確認を開始します。サーバーには何も送りません。
func (m *Manager) RequestDelete(id int) {
	m.pendingDelete = id
	m.hasPending = true
}

// CancelDelete は削除の確認を取り消します。
func (m *Manager) CancelDelete() {
	m.pendingDelete = 0
	m.hasPending = false
}

// ConfirmDelete は確認中のリストを削除します。成否にかかわらず確認状態は閉じます。
// 選択中のリストを削除した場合、カーソルは残りの先頭、無ければ未選択に移ります。
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	if !m.hasPending {
		return ErrNoPendingDelete
	}
	id := m.pendingDelete
	defer m.CancelDelete()

	if err := m.api.DeleteTodoList(ctx, id); err != nil {
		m.logger.Debug("delete list failed", zap.Int("list_id", id), zap.Error(err))
		m.notifier.Error("Failed to delete list")
		return fmt.Errorf("delete list: %w", err)
	}

	remaining := make([]models.TodoList, 0, len(m.lists))
	for _, l := range m.lists {
		if l.ID != id {
			remaining = append(remaining, l)
		}
	}
	m.lists = remaining

	if m.hasSel && m.selected == id {
		if len(remaining) > 0 {
			m.setSelection(remaining[0].ID, true)
		} else {
			m.setSelection(0, false)
		}
	}
	m.notifier.Success("List deleted successfully")
	return nil
}

// Select はユーザーが選んだリストにカーソルを移します。
func (m *Manager) Select(id int) error {
	for _, l := range m.lists {
		if l.ID == id {
			m.setSelection(id, true)
			return nil
		}
	}
	return ErrUnknownList
}

func (m *Manager) setSelection(id int, ok bool) {
	changed := ok != m.hasSel || id != m.selected
	m.selected, m.hasSel = id, ok
	if changed && m.OnSelectionChange != nil {
		m.OnSelectionChange(id, ok)
	}
}
