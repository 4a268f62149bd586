package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/lifemanager/internal/task"
)

func ids(tasks []*task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}

	return out
}

func TestApply(t *testing.T) {
	yesterday := fixedNow.AddDate(0, 0, -1)
	laterToday := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	inFiveDays := fixedNow.AddDate(0, 0, 5)
	nextMonth := fixedNow.AddDate(0, 1, 0)

	tasks := []*task.Task{
		{ID: 1, Title: "Pay rent", Deadline: &yesterday, Status: task.StatusTodo},
		{ID: 2, Title: "Call bank", Description: "about the loan", Deadline: &laterToday},
		{ID: 3, Title: "Plan trip", Deadline: &inFiveDays},
		{ID: 4, Title: "Someday", Priority: task.PriorityLow},
		{ID: 5, Title: "Old done", Deadline: &yesterday, Status: task.StatusDone},
		{ID: 6, Title: "Far away", Deadline: &nextMonth},
	}

	type testCase struct {
		name   string
		filter task.Filter
		want   []int
	}

	tests := []testCase{
		{name: "NoFilter", filter: task.Filter{}, want: []int{1, 2, 3, 4, 5, 6}},
		{name: "Overdue", filter: task.Filter{Deadline: task.DeadlineOverdue}, want: []int{1}},
		{name: "Today", filter: task.Filter{Deadline: task.DeadlineToday}, want: []int{2}},
		{name: "Week", filter: task.Filter{Deadline: task.DeadlineWeek}, want: []int{2, 3}},
		{name: "NoDate", filter: task.Filter{Deadline: task.DeadlineNone}, want: []int{4}},
		{name: "SearchDescription", filter: task.Filter{Search: "LOAN"}, want: []int{2}},
		{name: "Status", filter: task.Filter{Status: new(task.StatusDone)}, want: []int{5}},
		{name: "Priority", filter: task.Filter{Priority: new(task.PriorityLow)}, want: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(task.Apply(tasks, tt.filter, fixedNow)))
		})
	}
}

func TestSort(t *testing.T) {
	d1 := fixedNow.AddDate(0, 0, 1)
	d2 := fixedNow.AddDate(0, 0, 2)

	newTasks := func() []*task.Task {
		return []*task.Task{
			{ID: 1, Title: "beta", Priority: task.PriorityLow, CreatedAt: fixedNow.Add(-3 * time.Hour)},
			{ID: 2, Title: "Alpha", Priority: task.PriorityHigh, Deadline: &d2, CreatedAt: fixedNow.Add(-2 * time.Hour)},
			{ID: 3, Title: "gamma", Priority: task.PriorityMedium, Deadline: &d1, CreatedAt: fixedNow.Add(-1 * time.Hour)},
		}
	}

	type testCase struct {
		name string
		by   task.SortBy
		want []int
	}

	tests := []testCase{
		{name: "Created", by: task.SortCreated, want: []int{3, 2, 1}},
		{name: "Default", by: "", want: []int{3, 2, 1}},
		{name: "Priority", by: task.SortPriority, want: []int{2, 3, 1}},
		{name: "DeadlineMissingLast", by: task.SortDeadline, want: []int{3, 2, 1}},
		{name: "Title", by: task.SortTitle, want: []int{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := newTasks()
			task.Sort(tasks, tt.by)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}
}

func TestTransition(t *testing.T) {
	start := fixedNow.Add(-time.Hour)
	tk := &task.Task{Status: task.StatusTodo}

	task.Transition(tk, task.StatusProgress, start)
	assert.Equal(t, task.StatusProgress, tk.Status)
	assert.Equal(t, start, *tk.StartedAt)
	assert.Nil(t, tk.CompletedAt)

	task.Transition(tk, task.StatusDone, fixedNow)
	assert.Equal(t, start, *tk.StartedAt)
	assert.Equal(t, fixedNow, *tk.CompletedAt)

	task.Transition(tk, task.StatusProgress, fixedNow.Add(time.Hour))
	assert.Equal(t, start, *tk.StartedAt)
	assert.Nil(t, tk.CompletedAt)

	task.Transition(tk, task.StatusTodo, fixedNow)
	assert.Nil(t, tk.StartedAt)
	assert.Nil(t, tk.CompletedAt)
}

func TestTask_CompletedOnTime(t *testing.T) {
	deadline := fixedNow
	early := fixedNow.Add(-time.Hour)
	late := fixedNow.Add(time.Hour)

	assert.True(t, (&task.Task{Status: task.StatusDone, Deadline: &deadline, CompletedAt: &early}).CompletedOnTime())
	assert.False(t, (&task.Task{Status: task.StatusDone, Deadline: &deadline, CompletedAt: &late}).CompletedOnTime())
	assert.False(t, (&task.Task{Status: task.StatusDone, CompletedAt: &early}).CompletedOnTime())
}
