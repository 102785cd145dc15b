// Package entity defines the form structures bound by the web layer.
package entity

import (
	"time"

	"taskpanel/database/model"
	"taskpanel/util/common"
)

// LoginForm carries the credential pair for both login and signup.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TaskForm is the add-task submission. Deadline arrives as an ISO date string
// and Priority must be one of the closed enum members.
type TaskForm struct {
	Title    string `json:"title" form:"title"`
	Deadline string `json:"deadline" form:"deadline"`
	Priority string `json:"priority" form:"priority"`
}

// CheckValid validates the form against today's date in loc and returns the
// parsed deadline and priority. The deadline must parse as 2006-01-02 and must
// not be strictly before today.
func (f *TaskForm) CheckValid(now time.Time, loc *time.Location) (time.Time, model.Priority, error) {
	if f.Title == "" {
		return time.Time{}, "", common.NewError("title must not be empty")
	}

	deadline, err := time.ParseInLocation("2006-01-02", f.Deadline, loc)
	if err != nil {
		return time.Time{}, "", common.NewErrorf("invalid deadline %q", f.Deadline)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if deadline.Before(today) {
		return time.Time{}, "", common.NewError("cannot add tasks in the past")
	}

	priority, ok := model.ParsePriority(f.Priority)
	if !ok {
		return time.Time{}, "", common.NewErrorf("invalid priority %q", f.Priority)
	}

	return deadline, priority, nil
}
