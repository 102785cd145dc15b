// Package job holds background work: dispatcher jobs scheduled by request
// handlers and cron jobs scheduled by the web server.
package job

import (
	"time"

	"taskpanel/web/service"

	"github.com/google/uuid"
)

// MailNotifyJob sends one task notification mail. It satisfies dispatch.Job;
// its error is swallowed and logged at the dispatcher boundary.
type MailNotifyJob struct {
	id       string
	subject  string
	to       string
	title    string
	deadline time.Time

	mailService service.MailService
}

func NewMailNotifyJob(subject string, to string, title string, deadline time.Time) *MailNotifyJob {
	return &MailNotifyJob{
		id:       uuid.NewString(),
		subject:  subject,
		to:       to,
		title:    title,
		deadline: deadline,
	}
}

func (j *MailNotifyJob) ID() string {
	return j.id
}

func (j *MailNotifyJob) Type() string {
	return "mail-notify"
}

func (j *MailNotifyJob) Run() error {
	return j.mailService.SendTaskNotification(j.subject, j.to, j.title, j.deadline)
}
