package smtp

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/require"
)

func TestSendEMail(t *testing.T) {
	t.Run(`not configured client skips sending`, func(t *testing.T) {
		called := false
		i := impl{send: func(string, sasl.Client, string, []string, *strings.Reader) error {
			called = true
			return nil
		}}
		require.False(t, i.IsConfigured())
		require.NoError(t, i.SendEMail("hr@example.com", "New application", "text"))
		require.False(t, called)
	})

	t.Run(`configured client sends to host and port`, func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		i := impl{
			user: "careers@example.com",
			host: "smtp.example.com",
			port: "465",
			send: func(addr string, _ sasl.Client, from string, to []string, msg *strings.Reader) error {
				gotAddr, gotFrom, gotTo = addr, from, to
				return nil
			},
		}
		require.NoError(t, i.SendEMail("hr@example.com", "New application", "text"))
		require.Equal(t, "smtp.example.com:465", gotAddr)
		require.Equal(t, "careers@example.com", gotFrom)
		require.Equal(t, []string{"hr@example.com"}, gotTo)
	})
}

func TestBuildMessage(t *testing.T) {
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := BuildMessage("a@example.com", "b@example.com", "Hello", "line1\nline2", date)
	require.True(t, strings.HasPrefix(msg, "From: a@example.com\r\nTo: b@example.com\r\nSubject: Careers - Hello\r\n"))
	require.Contains(t, msg, "\r\n\r\nline1\r\nline2\r\n")
	require.NotContains(t, strings.ReplaceAll(msg, "\r\n", ""), "\n")
}
