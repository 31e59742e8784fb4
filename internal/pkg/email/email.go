package email

import (
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for transactional email. All
// sends are best-effort: callers log failures and never fail the
// parent operation on them.
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendConnectionAcceptedEmail(toEmail, toName, accepterName string) error
	SendNoticeEmail(toEmail, toName, noticeTitle, noticeBody string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService over plain SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendWelcomeEmail sends a welcome email to a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	subject := "Welcome to CampusBuzz"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to CampusBuzz!</h2>
				<p>Hello %s,</p>
				<p>Your account is ready. Find your friends, follow campus events and start buzzing.</p>
				<p>Best regards,<br>The CampusBuzz Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendConnectionAcceptedEmail tells the original requester their
// connection request was accepted.
func (s *EmailServiceImpl) SendConnectionAcceptedEmail(toEmail, toName, accepterName string) error {
	subject := fmt.Sprintf("%s accepted your connection request", accepterName)

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">You have a new connection!</h2>
				<p>Hello %s,</p>
				<p><strong>%s</strong> accepted your connection request. You can now message each other on CampusBuzz.</p>
				<p>Best regards,<br>The CampusBuzz Team</p>
			</div>
		</body>
		</html>
	`, toName, accepterName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendNoticeEmail notifies a user about a newly published notice.
func (s *EmailServiceImpl) SendNoticeEmail(toEmail, toName, noticeTitle, noticeBody string) error {
	subject := fmt.Sprintf("New campus notice: %s", noticeTitle)

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">%s</h2>
				<p>Hello %s,</p>
				<p>%s</p>
				<p>Best regards,<br>The CampusBuzz Team</p>
			</div>
		</body>
		</html>
	`, noticeTitle, toName, noticeBody)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email over SMTP. Without configured
// credentials it logs the mail instead, so development setups work
// without a mail server.
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}

	headers := []string{
		"From: " + from,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
