package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

var fixedNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestService_Create(t *testing.T) {
	type args struct {
		params task.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *task.MockRepository)
		wantField string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: task.CreateParams{
					Title:       "  Write report ",
					Description: "quarterly",
					Priority:    task.PriorityHigh,
				},
			},
			setupMock: func(m *task.MockRepository) {
				m.EXPECT().
					CreateTask(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tk *task.Task) error {
						tk.ID = 1
						return nil
					})
			},
		},
		{
			name:      "EmptyTitle",
			args:      args{params: task.CreateParams{Title: "   "}},
			wantField: "title",
			wantErr:   true,
		},
		{
			name:      "UnknownPriority",
			args:      args{params: task.CreateParams{Title: "x", Priority: "urgent"}},
			wantField: "priority",
			wantErr:   true,
		},
		{
			name: "RepoError",
			args: args{params: task.CreateParams{Title: "x"}},
			setupMock: func(m *task.MockRepository) {
				m.EXPECT().
					CreateTask(gomock.Any(), gomock.Any()).
					Return(errors.New("storage error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := task.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := task.NewService(repo, task.WithClock(clock))
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantField != "" {
					var verr *validation.Error
					require.ErrorAs(t, err, &verr)
					assert.NotEmpty(t, verr.Message(tt.wantField))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, got.ID)
			assert.Equal(t, "Write report", got.Title)
			assert.Equal(t, task.StatusTodo, got.Status)
			assert.Equal(t, fixedNow, got.CreatedAt)
			assert.Nil(t, got.CompletedAt)
		})
	}
}

func TestService_Create_DefaultPriority(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	repo.EXPECT().CreateTask(gomock.Any(), gomock.Any()).Return(nil)

	got, err := task.NewService(repo).Create(context.Background(), task.CreateParams{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, task.PriorityMedium, got.Priority)
}

func TestService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	svc := task.NewService(repo, task.WithClock(clock))

	existing := &task.Task{ID: 7, Title: "x", Status: task.StatusTodo, CreatedAt: fixedNow.Add(-time.Hour)}

	repo.EXPECT().GetTask(gomock.Any(), 7).Return(existing, nil)
	repo.EXPECT().UpdateTask(gomock.Any(), existing).Return(nil)

	got, err := svc.SetStatus(context.Background(), 7, task.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, fixedNow, *got.CompletedAt)
	require.NotNil(t, got.StartedAt)
}

func TestService_SetStatus_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := task.NewService(task.NewMockRepository(ctrl))

	_, err := svc.SetStatus(context.Background(), 1, "archived")
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	svc := task.NewService(repo)

	deadline := fixedNow.AddDate(0, 0, 3)
	existing := &task.Task{ID: 2, Title: "old", Priority: task.PriorityLow, Deadline: &deadline}

	repo.EXPECT().GetTask(gomock.Any(), 2).Return(existing, nil)
	repo.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), 2, task.UpdateParams{
		Title:         new("new"),
		Priority:      new(task.PriorityHigh),
		ClearDeadline: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Nil(t, got.Deadline)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	repo.EXPECT().GetTask(gomock.Any(), 99).Return(nil, task.ErrNotFound)

	_, err := task.NewService(repo).Get(context.Background(), 99)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	repo.EXPECT().ListTasks(gomock.Any()).Return([]*task.Task{
		{ID: 1, Title: "low", Priority: task.PriorityLow},
		{ID: 2, Title: "high", Priority: task.PriorityHigh},
		{ID: 3, Title: "done high", Priority: task.PriorityHigh, Status: task.StatusDone},
	}, nil)

	svc := task.NewService(repo, task.WithClock(clock))

	got, err := svc.List(context.Background(), task.Filter{Priority: new(task.PriorityHigh)}, task.SortTitle)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestService_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	svc := task.NewService(repo, task.WithClock(clock))

	deadline := fixedNow.AddDate(0, 0, 5)
	started := fixedNow.Add(-2 * time.Hour)
	done := fixedNow.Add(-time.Hour)
	src := &task.Task{
		ID: 4, Title: "Pay rent", Description: "monthly", Priority: task.PriorityHigh,
		Deadline: &deadline, Status: task.StatusDone, CreatedAt: fixedNow.AddDate(0, 0, -1),
		StartedAt: &started, CompletedAt: &done, OwnerID: "ana@x.com",
	}

	repo.EXPECT().GetTask(gomock.Any(), 4).Return(src, nil)
	repo.EXPECT().CreateTask(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *task.Task) error {
		assert.Zero(t, c.ID)
		c.ID = 9

		return nil
	})

	got, err := svc.Duplicate(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 9, got.ID)
	assert.Equal(t, "Pay rent (Cópia)", got.Title)
	assert.Equal(t, "monthly", got.Description)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, task.StatusTodo, got.Status)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.CompletedAt)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, deadline, *got.Deadline)

	// The source task is untouched.
	assert.Equal(t, "Pay rent", src.Title)
	assert.Equal(t, task.StatusDone, src.Status)
}

func TestService_Duplicate_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := task.NewMockRepository(ctrl)
	repo.EXPECT().GetTask(gomock.Any(), 3).Return(nil, task.ErrNotFound)

	_, err := task.NewService(repo).Duplicate(context.Background(), 3)
	assert.ErrorIs(t, err, task.ErrNotFound)
}
