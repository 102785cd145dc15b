// Package model defines the persisted entities of the task panel.
package model

import (
	"strings"
	"time"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps a form value onto the closed enum. Anything outside the
// three members is rejected at the boundary.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Status is the closed set of task states. Completion is a toggle between the
// two members, not a one-way transition.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

type User struct {
	Id             int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	Tasks          []Task `json:"-" gorm:"foreignKey:OwnerId"`
}

// HasMailAddress reports whether the username can double as a notification
// recipient. A bare "@" check, same heuristic the signup flow documents.
func (u *User) HasMailAddress() bool {
	return strings.Contains(u.Username, "@")
}

type Task struct {
	Id        int       `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" form:"title" gorm:"not null"`
	Deadline  time.Time `json:"deadline"`
	Priority  Priority  `json:"priority" gorm:"default:Normal"`
	Status    Status    `json:"status" gorm:"default:Pending"`
	CreatedOn time.Time `json:"createdOn"`
	OwnerId   int       `json:"-" gorm:"index;not null"`
}
