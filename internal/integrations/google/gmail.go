package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Mailer отправляет письма от имени агента через Gmail API
type Mailer struct {
	opts []option.ClientOption
}

// NewMailer создает Mailer. opts добавляются после HTTP клиента агента
// и могут его переопределить (например, endpoint в тестах).
func NewMailer(opts ...option.ClientOption) *Mailer {
	return &Mailer{opts: opts}
}

// SendEmail отправляет письмо и возвращает id сообщения в Gmail
func (m *Mailer) SendEmail(ctx context.Context, ts oauth2.TokenSource, email Email) (string, error) {
	if email.To == "" || email.Subject == "" {
		return "", fmt.Errorf("%w: recipient and subject are required", ErrInvalidInput)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, m.opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: create gmail service: %v", ErrSendEmail, err)
	}

	msg := &gmail.Message{Raw: EncodeRawMessage(email)}
	sent, err := srv.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendEmail, err)
	}

	return sent.Id, nil
}

// EncodeRawMessage собирает письмо RFC 2822 и кодирует его в base64url без паддинга
func EncodeRawMessage(email Email) string {
	var b strings.Builder
	b.WriteString("To: " + email.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.HTML)

	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}
