package smtp

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

type Provider interface {
	SendEMail(to, subject, message string) error
	IsConfigured() bool
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, msg *strings.Reader) error

func Connect(user, password, host, port string, tlsEnabled bool) {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
		send:       sendMail(tlsEnabled),
	}
}

func sendMail(tlsEnabled bool) sendFunc {
	return func(addr string, a sasl.Client, from string, to []string, msg *strings.Reader) error {
		if tlsEnabled {
			return smtp.SendMailTLS(addr, a, from, to, msg)
		}
		return smtp.SendMail(addr, a, from, to, msg)
	}
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
	send       sendFunc
}

func (i impl) IsConfigured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(to, subject, message string) (err error) {
	logger := log.
		WithField("to", to).
		WithField("subject", subject)
	if !i.IsConfigured() {
		logger.Warn("письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	body := strings.NewReader(BuildMessage(i.user, to, subject, message, time.Now()))
	err = i.send(i.host+":"+i.port, auth, i.user, []string{to}, body)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки письма")
		return err
	}
	logger.Info("письмо отправлено")
	return nil
}

// BuildMessage письмо в формате RFC 5322, строки разделены CRLF
func BuildMessage(from, to, subject, message string, date time.Time) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: Careers - " + subject,
		"Date: " + date.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}
	text := strings.ReplaceAll(message, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\r\n")
	return fmt.Sprintf("%s\r\n\r\n%s\r\n", strings.Join(headers, "\r\n"), text)
}
