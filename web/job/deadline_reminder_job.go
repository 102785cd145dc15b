package job

import (
	"time"

	"taskpanel/config"
	"taskpanel/database/model"
	"taskpanel/logger"
	"taskpanel/web/dispatch"
	"taskpanel/web/service"
)

// DeadlineReminderJob mails owners of still-pending high-priority tasks due
// today or tomorrow. Scheduled daily by the web server; delivery goes through
// the dispatcher with the usual best-effort contract.
type DeadlineReminderJob struct {
	dispatcher *dispatch.Dispatcher

	taskService service.TaskService
	userService service.UserService
	mailService service.MailService
}

func NewDeadlineReminderJob(dispatcher *dispatch.Dispatcher) *DeadlineReminderJob {
	return &DeadlineReminderJob{dispatcher: dispatcher}
}

func (j *DeadlineReminderJob) Run() {
	if !j.mailService.IsConfigured() {
		logger.Debug("deadline reminder skipped, mail delivery not configured")
		return
	}

	loc, err := config.GetTimeLocation()
	if err != nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	tasks, err := j.taskService.GetPendingHighPriorityDue(today, tomorrow)
	if err != nil {
		logger.Warning("deadline reminder query failed:", err)
		return
	}

	owners := make(map[int]*model.User)
	for _, task := range tasks {
		owner, ok := owners[task.OwnerId]
		if !ok {
			owner, err = j.userService.GetUser(task.OwnerId)
			if err != nil {
				logger.Warningf("deadline reminder: owner %d lookup failed: %v", task.OwnerId, err)
				continue
			}
			owners[task.OwnerId] = owner
		}
		if !owner.HasMailAddress() {
			continue
		}
		j.dispatcher.Submit(NewMailNotifyJob("Task Deadline Reminder", owner.Username, task.Title, task.Deadline))
	}
}
