// Package email sends employee verification mail over SMTP.
package email

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/inbucket/html2text"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"
)

const qrImageSize = 256

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	StartTLS bool   `mapstructure:"start_tls"`
}

// Configured reports whether enough settings are present to actually send.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type Sender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: slog.With("component", "email"),
	}
}

// SendVerification mails the verification link to a newly registered
// employee, with a QR code of the link attached for the desktop client.
// When SMTP is not configured the link is logged instead of failing, so dev
// environments can still complete verification.
func (s *Sender) SendVerification(toEmail, name, verificationLink string) error {
	if !s.cfg.Configured() {
		s.logger.Warn("SMTP not configured. Email NOT sent.", "to", toEmail, "verification_link", verificationLink)
		return nil
	}

	html := verificationHTML(name, verificationLink)

	text, err := html2text.FromString(html, html2text.Options{OmitLinks: false})
	if err != nil {
		return fmt.Errorf("failed to convert HTML to text: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Verify your Time Tracker account")
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	qr, err := qrcode.Encode(verificationLink, qrcode.Medium, qrImageSize)
	if err != nil {
		s.logger.Error("Error generating verification QR code", "error", err)
	} else if err := msg.AttachReader("verify-qr.png", bytes.NewReader(qr)); err != nil {
		s.logger.Error("Error attaching verification QR code", "error", err)
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.StartTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info("Sent verification email", "to", toEmail)
	return nil
}

func verificationHTML(name, verificationLink string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>Thank you for registering with Time Tracker.
Please verify your email address by clicking the link below:</p>
<p><a href="%s">%s</a></p>
<p>You can also scan the attached QR code with the desktop app.</p>
<p>If you did not create an account, please ignore this email.</p>
<p>Regards,<br>The Time Tracker Team</p>
</body></html>`, name, verificationLink, verificationLink)
}
