package service

import (
	"os"
	"testing"
	"time"

	"taskpanel/database"
	"taskpanel/database/model"

	"github.com/stretchr/testify/assert"
)

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func tomorrow() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
}

func TestTaskService(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	alice, err := userService.CreateUser("alice@example.com", "pw1")
	assert.NoError(t, err)

	// Tasks come back ordered by deadline ascending, not insertion order.
	later, err := taskService.AddTask(alice, "Later", tomorrow().AddDate(0, 0, 5), model.PriorityLow)
	assert.NoError(t, err)
	sooner, err := taskService.AddTask(alice, "Sooner", tomorrow(), model.PriorityNormal)
	assert.NoError(t, err)

	tasks, err := taskService.GetTasks(alice.Id)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, sooner.Id, tasks[0].Id)
	assert.Equal(t, later.Id, tasks[1].Id)

	// New tasks start pending with a creation timestamp.
	assert.Equal(t, model.StatusPending, tasks[0].Status)
	assert.False(t, tasks[0].CreatedOn.IsZero())

	// Toggling twice is an involution.
	err = taskService.ToggleTask(sooner.Id, alice.Id)
	assert.NoError(t, err)
	got, err := taskService.GetTask(sooner.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	err = taskService.ToggleTask(sooner.Id, alice.Id)
	assert.NoError(t, err)
	got, err = taskService.GetTask(sooner.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	// Deleting an owned task removes it.
	err = taskService.DelTask(later.Id, alice.Id)
	assert.NoError(t, err)
	_, err = taskService.GetTask(later.Id, alice.Id)
	assert.True(t, database.IsNotFound(err))
}

func TestTaskOwnership(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	alice, err := userService.CreateUser("alice@example.com", "pw1")
	assert.NoError(t, err)
	bob, err := userService.CreateUser("bob", "pw2")
	assert.NoError(t, err)

	task, err := taskService.AddTask(alice, "Report", tomorrow(), model.PriorityHigh)
	assert.NoError(t, err)

	// Bob cannot read Alice's task.
	_, err = taskService.GetTask(task.Id, bob.Id)
	assert.True(t, database.IsNotFound(err))

	// Toggling and deleting someone else's task is a silent no-op.
	err = taskService.ToggleTask(task.Id, bob.Id)
	assert.NoError(t, err)
	err = taskService.DelTask(task.Id, bob.Id)
	assert.NoError(t, err)

	got, err := taskService.GetTask(task.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	// Bob's list does not leak Alice's task either.
	tasks, err := taskService.GetTasks(bob.Id)
	assert.NoError(t, err)
	assert.Len(t, tasks, 0)
}

func TestGetPendingHighPriorityDue(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	taskService := TaskService{}

	alice, err := userService.CreateUser("alice@example.com", "pw1")
	assert.NoError(t, err)

	today := tomorrow().AddDate(0, 0, -1)

	due, err := taskService.AddTask(alice, "Due", tomorrow(), model.PriorityHigh)
	assert.NoError(t, err)
	_, err = taskService.AddTask(alice, "Far", tomorrow().AddDate(0, 0, 7), model.PriorityHigh)
	assert.NoError(t, err)
	_, err = taskService.AddTask(alice, "Overdue", today.AddDate(0, 0, -3), model.PriorityHigh)
	assert.NoError(t, err)
	_, err = taskService.AddTask(alice, "Low", tomorrow(), model.PriorityLow)
	assert.NoError(t, err)
	completed, err := taskService.AddTask(alice, "Done", tomorrow(), model.PriorityHigh)
	assert.NoError(t, err)
	err = taskService.ToggleTask(completed.Id, alice.Id)
	assert.NoError(t, err)

	// Only the pending high-priority task inside the window comes back:
	// far-future, long-overdue, low-priority and completed ones do not.
	tasks, err := taskService.GetPendingHighPriorityDue(today, tomorrow())
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, due.Id, tasks[0].Id)
}

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name     string
		priority model.Priority
		username string
		expected bool
	}{
		{"high priority and mail address", model.PriorityHigh, "alice@example.com", true},
		{"high priority without mail address", model.PriorityHigh, "alice", false},
		{"normal priority with mail address", model.PriorityNormal, "alice@example.com", false},
		{"low priority with mail address", model.PriorityLow, "alice@example.com", false},
		{"normal priority without mail address", model.PriorityNormal, "alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &model.Task{Priority: tt.priority}
			owner := &model.User{Username: tt.username}
			if got := ShouldNotify(task, owner); got != tt.expected {
				t.Errorf("ShouldNotify() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
