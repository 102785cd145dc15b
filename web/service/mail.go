package service

import (
	"fmt"
	"html"
	"time"

	"taskpanel/config"
	"taskpanel/logger"
	"taskpanel/util/common"

	"gopkg.in/gomail.v2"
)

// MailService delivers task notifications through an authenticated SMTP
// relay. Delivery is synchronous; callers that must not wait go through the
// dispatcher.
type MailService struct{}

// IsConfigured reports whether relay credentials are present. Without them
// delivery is disabled and send attempts fail with a logged error.
func (s *MailService) IsConfigured() bool {
	return config.GetMailUsername() != "" && config.GetMailPassword() != ""
}

// SendTaskNotification formats the HTML notification and sends it to the
// recipient. Returns an error on missing credentials or relay failure.
func (s *MailService) SendTaskNotification(subject string, to string, title string, deadline time.Time) error {
	sender := config.GetMailUsername()
	password := config.GetMailPassword()
	if sender == "" || password == "" {
		return common.NewError("MAIL_USERNAME or MAIL_PASSWORD missing, mail delivery disabled")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", notificationBody(title, deadline))

	d := gomail.NewDialer(config.GetSMTPHost(), config.GetSMTPPort(), sender, password)
	if err := d.DialAndSend(m); err != nil {
		return common.NewErrorf("send mail to %s failed: %v", to, err)
	}

	logger.Infof("notification mail sent to %s", to)
	return nil
}

func notificationBody(title string, deadline time.Time) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #4f46e5;">Task Notification</h2>
			<div style="background: #f3f4f6; padding: 15px; border-radius: 8px; border-left: 5px solid #4f46e5;">
				<p><strong>Task:</strong> %s</p>
				<p><strong>Deadline:</strong> %s</p>
				<p><strong>Priority:</strong> <span style="color: red;">High</span></p>
			</div>
			<p>Get it done!</p>
		</body>
	</html>
	`, html.EscapeString(title), deadline.Format("2006-01-02"))
}
