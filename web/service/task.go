package service

import (
	"time"

	"taskpanel/database"
	"taskpanel/database/model"

	"gorm.io/gorm"
)

type TaskService struct{}

// GetTasks returns all tasks owned by userId, ordered by deadline ascending.
func (s *TaskService) GetTasks(userId int) ([]*model.Task, error) {
	db := database.GetDB()
	var tasks []*model.Task
	err := db.Model(model.Task{}).
		Where("owner_id = ?", userId).
		Order("deadline asc").
		Find(&tasks).
		Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns the task only when it is owned by userId.
func (s *TaskService) GetTask(id int, userId int) (*model.Task, error) {
	db := database.GetDB()
	task := &model.Task{}
	err := db.Model(model.Task{}).
		Where("id = ? and owner_id = ?", id, userId).
		First(task).
		Error
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AddTask persists a new pending task for owner. Deadline validation happens
// at the form boundary; this only writes.
func (s *TaskService) AddTask(owner *model.User, title string, deadline time.Time, priority model.Priority) (*model.Task, error) {
	db := database.GetDB()
	task := &model.Task{
		Title:     title,
		Deadline:  deadline,
		Priority:  priority,
		Status:    model.StatusPending,
		CreatedOn: time.Now(),
		OwnerId:   owner.Id,
	}
	err := db.Create(task).Error
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips Pending and Completed on an owned task. A missing or
// foreign task is a silent no-op.
func (s *TaskService) ToggleTask(id int, userId int) error {
	task, err := s.GetTask(id, userId)
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		return err
	}

	if task.Status == model.StatusPending {
		task.Status = model.StatusCompleted
	} else {
		task.Status = model.StatusPending
	}

	db := database.GetDB()
	return db.Save(task).Error
}

// DelTask removes an owned task. A missing or foreign task is a silent no-op.
func (s *TaskService) DelTask(id int, userId int) error {
	db := database.GetDB()
	return db.Where("id = ? and owner_id = ?", id, userId).
		Delete(&model.Task{}).
		Error
}

// GetPendingHighPriorityDue returns pending high-priority tasks whose
// deadline falls inside [from, until], for the reminder job. Overdue tasks
// are not reminded again.
func (s *TaskService) GetPendingHighPriorityDue(from time.Time, until time.Time) ([]*model.Task, error) {
	db := database.GetDB()
	var tasks []*model.Task
	err := db.Model(model.Task{}).
		Where("status = ? and priority = ? and deadline >= ? and deadline <= ?",
			model.StatusPending, model.PriorityHigh, from, until).
		Find(&tasks).
		Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return tasks, nil
}

// ShouldNotify reports whether creating the task schedules a notification:
// only high-priority tasks, and only when the owner's username can receive
// mail.
func ShouldNotify(task *model.Task, owner *model.User) bool {
	return task.Priority == model.PriorityHigh && owner.HasMailAddress()
}
