// Package mailer отправляет письма: подтверждение email, сброс пароля, обращения из формы контактов.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/sidegames-golf/sidegames/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Mailer — то, что нужно сервисам от почты.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, confirmationToken string) error
	SendPasswordResetEmail(ctx context.Context, to, resetToken string) error
	SendContactMessage(ctx context.Context, msg ContactMessage) error
}

type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// sender доставляет готовое HTML-письмо.
type sender interface {
	send(to []string, subject, htmlBody string) error
}

type mailer struct {
	sender    sender
	publicURL string
	support   string
}

// New возвращает SMTP-почту, а без настроенного SMTP — почту, которая пишет письма в лог.
func New(cfg config.SMTPConfig, publicURL string, log *slog.Logger) Mailer {
	var s sender = &logSender{log: log.With(slog.String("component", "mailer"))}
	if cfg.Host != "" {
		s = &smtpSender{cfg: cfg}
	}
	return &mailer{sender: s, publicURL: strings.TrimRight(publicURL, "/"), support: cfg.Support}
}

func (m *mailer) SendVerificationEmail(_ context.Context, to, confirmationToken string) error {
	data := struct {
		Email            string
		ConfirmationLink string
	}{
		Email:            to,
		ConfirmationLink: fmt.Sprintf("%s/login?confirm=%s", m.publicURL, confirmationToken),
	}
	body, err := render("verify_email.html", data)
	if err != nil {
		return err
	}
	return m.sender.send([]string{to}, "Confirm your sidegames.golf account", body)
}

func (m *mailer) SendPasswordResetEmail(_ context.Context, to, resetToken string) error {
	data := struct {
		Email     string
		ResetLink string
	}{
		Email:     to,
		ResetLink: fmt.Sprintf("%s/password?token=%s", m.publicURL, resetToken),
	}
	body, err := render("password_reset.html", data)
	if err != nil {
		return err
	}
	return m.sender.send([]string{to}, "Reset your sidegames.golf password", body)
}

func (m *mailer) SendContactMessage(_ context.Context, msg ContactMessage) error {
	body, err := render("contact.html", msg)
	if err != nil {
		return err
	}
	return m.sender.send([]string{m.support}, "Contact form: "+msg.Name, body)
}

func render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона %s: %w", name, err)
	}
	return body.String(), nil
}

// buildMessage собирает заголовки и тело письма.
func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	return []byte("To: " + strings.Join(to, ", ") + "\r\n" +
		"From: " + from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody + "\r\n")
}

type smtpSender struct {
	cfg config.SMTPConfig
}

func (s *smtpSender) send(to []string, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsconfig := &tls.Config{ServerName: s.cfg.Host}

	var client *smtp.Client
	if s.cfg.Port == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(buildMessage(s.cfg.From, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}
	return nil
}

// logSender вместо отправки пишет письмо в лог (SMTP не настроен).
type logSender struct {
	log *slog.Logger
}

func (s *logSender) send(to []string, subject, htmlBody string) error {
	s.log.Info("smtp is not configured, email skipped",
		slog.String("to", strings.Join(to, ", ")),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)),
	)
	return nil
}
