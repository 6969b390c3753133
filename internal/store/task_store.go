package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
)

const taskColumns = `id, title, description, completed, start_date, due_date,
	priority, category, sort_order, created_at, updated_at`

const subtaskColumns = `id, task_id, title, description, completed, start_date, due_date,
	priority, sort_order`

// CreateTask inserts a new task and its subtasks. Generates a UUID if ID is
// empty and writes the assigned ID and timestamps back into task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if !task.Priority.Valid() {
		task.Priority = model.PriorityMedium
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Default sort_order to max+1 within the category.
	if task.SortOrder == 0 {
		var maxOrder int
		err := tx.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM tasks WHERE category = ?",
			task.Category)
		if err != nil {
			return fmt.Errorf("getting max sort_order: %w", err)
		}
		task.SortOrder = maxOrder + 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, boolToInt(task.Completed),
		task.StartDate.UTC(), task.DueDate.UTC(),
		string(task.Priority), task.Category, task.SortOrder,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	if err := insertSubtasks(ctx, tx, task.ID, task.Subtasks); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateTask replaces an existing task's fields and subtasks by ID.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if !task.Priority.Valid() {
		task.Priority = model.PriorityMedium
	}
	task.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, completed = ?,
			start_date = ?, due_date = ?, priority = ?,
			category = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, boolToInt(task.Completed),
		task.StartDate.UTC(), task.DueDate.UTC(), string(task.Priority),
		task.Category, task.SortOrder, task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	if err := checkAffected(result, "task", task.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtasks WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clearing subtasks of %s: %w", task.ID, err)
	}
	if err := insertSubtasks(ctx, tx, task.ID, task.Subtasks); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTask removes a task by ID. Cascades to subtasks.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return checkAffected(result, "task", id)
}

// GetTaskByID retrieves a single task by ID, including its subtasks.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, notFound(err))
	}

	tasks := []model.Task{task}
	if err := s.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// GetTasks retrieves tasks matching the filter, with subtasks attached.
func (s *SQLiteStore) GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args := buildTaskQuery(filter)

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	if err := s.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTasksInRange returns every task whose [start_date, due_date] interval
// intersects [start, end], inclusive at both ends, ordered by start date.
func (s *SQLiteStore) GetTasksInRange(
	ctx context.Context,
	start, end time.Time,
) ([]model.Task, error) {
	// Stored times are UTC text in one layout, so they compare in order.
	// SQL narrows with a day of margin and the exact inclusive test runs
	// in Go.
	lo := start.UTC().AddDate(0, 0, -1)
	hi := end.UTC().AddDate(0, 0, 1)

	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT `+taskColumns+` FROM tasks
		WHERE start_date <= ? AND due_date >= ?
		ORDER BY start_date, id`,
		hi, lo,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks in range: %w", err)
	}

	tasks = calendar.SelectTasksInRange(tasks, start, end)
	if err := s.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ToggleTask flips a task's completion and sets every subtask to match.
func (s *SQLiteStore) ToggleTask(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END,
			updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("toggling task %s: %w", id, err)
	}
	if err := checkAffected(result, "task", id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE subtasks SET completed = (SELECT completed FROM tasks WHERE id = ?)
		WHERE task_id = ?`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("syncing subtasks of %s: %w", id, err)
	}

	return tx.Commit()
}

// ReorderTasks assigns sort_order 1..n to taskIDs, in order, within a
// category. IDs outside the category are left untouched.
func (s *SQLiteStore) ReorderTasks(
	ctx context.Context,
	category string,
	taskIDs []string,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		"UPDATE tasks SET sort_order = ?, updated_at = ? WHERE id = ? AND category = ?")
	if err != nil {
		return fmt.Errorf("preparing reorder statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, id := range taskIDs {
		if _, err := stmt.ExecContext(ctx, i+1, now, id, category); err != nil {
			return fmt.Errorf("reordering task %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// AddSubtask appends a subtask to its parent task. A new incomplete
// subtask makes the parent incomplete.
func (s *SQLiteStore) AddSubtask(ctx context.Context, subtask *model.Subtask) error {
	if strings.TrimSpace(subtask.Title) == "" {
		return fmt.Errorf("subtask title must not be empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM tasks WHERE id = ?", subtask.TaskID)
	if err != nil {
		return fmt.Errorf("checking task %s: %w", subtask.TaskID, err)
	}
	if exists == 0 {
		return fmt.Errorf("task %s: %w", subtask.TaskID, ErrNotFound)
	}

	if subtask.SortOrder == 0 {
		var maxOrder int
		err := tx.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM subtasks WHERE task_id = ?",
			subtask.TaskID)
		if err != nil {
			return fmt.Errorf("getting max subtask sort_order: %w", err)
		}
		subtask.SortOrder = maxOrder + 1
	}

	if err := insertSubtasks(ctx, tx, subtask.TaskID, []model.Subtask{*subtask}); err != nil {
		return err
	}
	if err := syncParentCompletion(ctx, tx, subtask.TaskID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSubtask removes a subtask by ID.
func (s *SQLiteStore) DeleteSubtask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM subtasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting subtask %s: %w", id, err)
	}
	return checkAffected(result, "subtask", id)
}

// ToggleSubtask flips one subtask. The parent is completed exactly when all
// of its subtasks are.
func (s *SQLiteStore) ToggleSubtask(ctx context.Context, taskID, subtaskID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE subtasks SET completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END
		WHERE id = ? AND task_id = ?`,
		subtaskID, taskID,
	)
	if err != nil {
		return fmt.Errorf("toggling subtask %s: %w", subtaskID, err)
	}
	if err := checkAffected(result, "subtask", subtaskID); err != nil {
		return err
	}
	if err := syncParentCompletion(ctx, tx, taskID); err != nil {
		return err
	}

	return tx.Commit()
}

// syncParentCompletion marks a task completed iff all its subtasks are.
// Tasks without subtasks are left as they are.
func syncParentCompletion(ctx context.Context, tx *sqlx.Tx, taskID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			completed = NOT EXISTS (
				SELECT 1 FROM subtasks WHERE task_id = ? AND completed = 0
			),
			updated_at = ?
		WHERE id = ? AND EXISTS (SELECT 1 FROM subtasks WHERE task_id = ?)`,
		taskID, time.Now().UTC(), taskID, taskID,
	)
	if err != nil {
		return fmt.Errorf("syncing completion of task %s: %w", taskID, err)
	}
	return nil
}

// insertSubtasks writes subtasks for taskID, assigning missing IDs and
// sort orders from their position.
func insertSubtasks(
	ctx context.Context,
	tx *sqlx.Tx,
	taskID string,
	subtasks []model.Subtask,
) error {
	if len(subtasks) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO subtasks (`+subtaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing subtask insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range subtasks {
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		if st.SortOrder == 0 {
			st.SortOrder = i + 1
		}
		if !st.Priority.Valid() {
			st.Priority = model.PriorityMedium
		}
		_, err := stmt.ExecContext(ctx,
			st.ID, taskID, st.Title, st.Description, boolToInt(st.Completed),
			st.StartDate.UTC(), st.DueDate.UTC(), string(st.Priority), st.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("inserting subtask %s: %w", st.ID, err)
		}
	}
	return nil
}

// attachSubtasks loads the subtasks of all tasks in one query and assigns
// them in sort order.
func (s *SQLiteStore) attachSubtasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	query, args, err := sqlx.In(
		"SELECT "+subtaskColumns+" FROM subtasks WHERE task_id IN (?) ORDER BY sort_order, id",
		taskIDs,
	)
	if err != nil {
		return fmt.Errorf("building subtask query: %w", err)
	}

	var subtasks []model.Subtask
	if err := s.db.SelectContext(ctx, &subtasks, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading subtasks: %w", err)
	}

	byTask := make(map[string][]model.Subtask, len(tasks))
	for _, st := range subtasks {
		byTask[st.TaskID] = append(byTask[st.TaskID], st)
	}
	for i := range tasks {
		tasks[i].Subtasks = byTask[tasks[i].ID]
	}
	return nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
func buildTaskQuery(filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*filter.Priority))
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Sort.
	sortBy := "sort_order"
	if filter.SortBy != "" {
		allowed := map[string]string{
			"sort_order": "sort_order",
			"start_date": "start_date",
			"due_date":   "due_date",
			"priority":   "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END",
			"title":      "title",
			"created_at": "created_at",
		}
		if col, ok := allowed[filter.SortBy]; ok {
			sortBy = col
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}
