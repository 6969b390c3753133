// Package catmgr is the category manager: a list of categories that can be
// created, edited, deleted and reordered.
package catmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-calendar/internal/keys"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
	"github.com/nhle/task-calendar/internal/theme"
)

// CloseMsg signals the parent to close the category manager.
type CloseMsg struct{}

// CategoriesChangedMsg signals that categories were created, updated,
// deleted or reordered.
type CategoriesChangedMsg struct{}

// Colors are the color names a category can take.
var Colors = []string{"blue", "green", "yellow", "red", "orange", "magenta"}

const defaultIcon = "●"

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	icon    string
	color   string
	confirm bool
}

type categoriesLoadedMsg struct {
	categories []model.Category
	err        error
}

// categoryChangedMsg reports the outcome of a store write.
type categoryChangedMsg struct {
	action string
	err    error
}

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        mode
	store       store.Store
	keys        *keys.KeyMap
	categories  []model.Category
	selectedIdx int
	editing     *model.Category
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads categories from the store.
func (m Model) Init() tea.Cmd {
	return m.loadCategories()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		if m.selectedIdx >= len(m.categories) {
			m.selectedIdx = max(len(m.categories)-1, 0)
		}
		return m, nil

	case categoryChangedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category " + msg.action
		}
		m.mode = modeList
		return m, tea.Batch(m.loadCategories(), func() tea.Msg { return CategoriesChangedMsg{} })

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleListKey(msg)
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.MoveUp):
		return m.move(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m.move(1)

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editing = nil
		*m.fb = formBindings{icon: defaultIcon, color: Colors[0]}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		c, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.editing = &c
		*m.fb = formBindings{name: c.Name, icon: c.Icon, color: c.Color}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.Selected(); !ok {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

// move swaps the selected category with its neighbour and persists the
// new order.
func (m Model) move(delta int) (Model, tea.Cmd) {
	to := m.selectedIdx + delta
	if len(m.categories) < 2 || to < 0 || to >= len(m.categories) {
		return m, nil
	}
	cats := make([]model.Category, len(m.categories))
	copy(cats, m.categories)
	cats[m.selectedIdx], cats[to] = cats[to], cats[m.selectedIdx]
	m.categories = cats
	m.selectedIdx = to

	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	s := m.store
	return m, func() tea.Msg {
		err := s.ReorderCategories(context.Background(), ids)
		return categoryChangedMsg{action: "moved", err: err}
	}
}

func (m Model) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(Colors))
	for i, c := range Colors {
		options[i] = huh.NewOption(theme.CategoryStyle(c).Render(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Category name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Placeholder(defaultIcon).
				Value(&m.fb.icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(options...).
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithShowHelp(false)
}

func (m Model) buildConfirmForm() *huh.Form {
	c, _ := m.Selected()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", c.Name)).
				Description("Its tasks will become uncategorized.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeList
		return m, m.saveCategory()
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.mode = modeList
		if c, ok := m.Selected(); m.fb.confirm && ok {
			return m, m.deleteCategory(c.ID)
		}
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		for i, c := range m.categories {
			icon := c.Icon
			if icon == "" {
				icon = defaultIcon
			}
			label := fmt.Sprintf("%s  %s", theme.CategoryStyle(c.Color).UnsetPadding().Render(icon), c.Name)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// Selected returns the highlighted category, if any.
func (m Model) Selected() (model.Category, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.categories) {
		return model.Category{}, false
	}
	return m.categories[m.selectedIdx], true
}

// Editing reports whether a form or the delete confirmation is open.
func (m Model) Editing() bool {
	return m.mode != modeList
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) loadCategories() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		categories, err := s.GetCategories(context.Background())
		if err != nil {
			return categoriesLoadedMsg{err: fmt.Errorf("loading categories: %w", err)}
		}
		return categoriesLoadedMsg{categories: categories}
	}
}

// saveCategory creates or updates a category from the form values.
func (m Model) saveCategory() tea.Cmd {
	s := m.store
	c := model.Category{
		Name:  strings.TrimSpace(m.fb.name),
		Icon:  strings.TrimSpace(m.fb.icon),
		Color: m.fb.color,
	}
	if m.editing != nil {
		c.ID = m.editing.ID
		c.SortOrder = m.editing.SortOrder
		c.CreatedAt = m.editing.CreatedAt
		return func() tea.Msg {
			err := s.UpdateCategory(context.Background(), c)
			return categoryChangedMsg{action: "updated", err: err}
		}
	}
	return func() tea.Msg {
		err := s.CreateCategory(context.Background(), &c)
		return categoryChangedMsg{action: "created", err: err}
	}
}

func (m Model) deleteCategory(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteCategory(context.Background(), id)
		return categoryChangedMsg{action: "deleted", err: err}
	}
}
