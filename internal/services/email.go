package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/eduhire/backend/internal/config"
	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"gorm.io/gorm"
)

// EmailService sends moderation decision notifications. SMTP settings live in
// the email group of system_configs so operators can change them at runtime.
type EmailService struct {
	db *gorm.DB
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func NewEmailService(db *gorm.DB) *EmailService {
	return &EmailService{db: db}
}

// GetConfig resolves the effective mail settings. The static smtp config
// section (file + SMTP_* env) supplies the relay defaults; non-empty entries
// in the email group of system_configs override them at runtime. The enabled
// flag lives only in system_configs.
func (s *EmailService) GetConfig() *EmailConfig {
	cfg := &EmailConfig{}

	if global := config.GlobalConfig; global != nil {
		cfg.Host = global.SMTP.Host
		cfg.Port = global.SMTP.Port
		cfg.Username = global.SMTP.Username
		cfg.Password = global.SMTP.Password
		cfg.From = global.SMTP.From
		cfg.UseTLS = global.SMTP.UseTLS
	}

	var configs []models.SystemConfig
	s.db.Where("`group` = ?", "email").Find(&configs)

	for _, c := range configs {
		if c.Value == "" {
			continue
		}
		switch c.Key {
		case "email_enabled":
			cfg.Enabled = c.Value == "true"
		case "email_host":
			cfg.Host = c.Value
		case "email_port":
			if port, err := strconv.Atoi(c.Value); err == nil {
				cfg.Port = port
			}
		case "email_username":
			cfg.Username = c.Value
		case "email_password":
			cfg.Password = c.Value
		case "email_from":
			cfg.From = c.Value
		case "email_use_tls":
			cfg.UseTLS = c.Value == "true"
		}
	}

	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return cfg
}

// SendModerationDecision emails a reviewer the outcome of moderating their
// review. Silently skipped when email is disabled or unconfigured.
func (s *EmailService) SendModerationDecision(task *NotificationTask) error {
	cfg := s.GetConfig()
	if !cfg.Enabled || cfg.Host == "" {
		return nil
	}
	if task.Recipient == "" {
		return nil
	}

	var subject string
	switch task.Decision {
	case "approved":
		subject = "[Eduhire] Your review has been published"
	case "flagged":
		subject = "[Eduhire] Your review has been flagged"
	default:
		subject = "[Eduhire] Update on your review"
	}

	body := s.buildDecisionBody(task)

	return s.sendEmail(cfg, []string{task.Recipient}, subject, body)
}

func (s *EmailService) buildDecisionBody(task *NotificationTask) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString("<h2>Review Moderation Update</h2>")

	switch task.Decision {
	case "approved":
		sb.WriteString("<p>Good news: your review passed moderation and is now visible on the public profile.</p>")
	case "flagged":
		sb.WriteString("<p>Your review was flagged by a moderator and is no longer publicly visible.</p>")
		if task.Reason != "" {
			sb.WriteString(fmt.Sprintf("<p><b>Reason:</b> %s</p>", task.Reason))
		}
		sb.WriteString("<p>You can edit your review to address the issue; it stays hidden until a moderator approves it again.</p>")
	}

	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Eduhire - teacher &amp; institution job board</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) sendEmail(cfg *EmailConfig, to []string, subject, body string) error {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var err error
	if cfg.UseTLS {
		err = s.sendEmailTLS(cfg, addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Warn().Err(err).Msg("failed to send email")
		return err
	}

	logger.Info().Strs("to", to).Msg("notification email sent")
	return nil
}

func (s *EmailService) sendEmailTLS(cfg *EmailConfig, addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(message))
	if err != nil {
		return err
	}

	return w.Close()
}
