package views

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tbetodo/internal/reconcile"
)

// ListItem is one row of a bubbles list, keyed by entity id.
type ListItem struct {
	Key   string
	Label string
}

func (i ListItem) FilterValue() string { return i.Label }
func (i ListItem) Title() string       { return i.Label }
func (i ListItem) Description() string { return "" }

// NewList returns a bubbles list configured the way both panes use it.
func NewList(title string, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	return l
}

// ApplyPlan mirrors a reconcile result onto l: a rebuild replaces every item,
// a relabel only touches the rows that changed. The cursor is then moved to
// the selected row.
func ApplyPlan(l *list.Model, res reconcile.Result[string]) tea.Cmd {
	var cmds []tea.Cmd
	switch res.Plan.Kind {
	case reconcile.Rebuild:
		items := make([]list.Item, 0, len(res.Plan.Items))
		for _, e := range res.Plan.Items {
			items = append(items, ListItem{Key: e.Key, Label: e.Text})
		}
		cmds = append(cmds, l.SetItems(items))
	case reconcile.RelabelInPlace:
		for _, r := range res.Plan.Relabels {
			cmds = append(cmds, l.SetItem(r.Index, ListItem{Key: r.Key, Label: r.Text}))
		}
	}
	if idx := res.SelectedIndex(); idx >= 0 {
		l.Select(idx)
	}
	return tea.Batch(cmds...)
}

// SelectedKey is the key of the row under the cursor, or "".
func SelectedKey(l list.Model) string {
	item, ok := l.SelectedItem().(ListItem)
	if !ok {
		return ""
	}
	return item.Key
}
