package utils

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmail(t *testing.T) {
	msg, err := RenderEmail("books@example.com", "Hi", "welcome.html", EmailData{
		Name:      "<Alice>",
		Message:   "Welcome",
		ActionURL: "https://books.example.com",
	})
	require.NoError(t, err)

	text := string(msg)
	assert.True(t, strings.HasPrefix(text, "From: books@example.com\r\nSubject: Hi\r\n"))
	assert.Contains(t, text, "Hello &lt;Alice&gt;")
	assert.Contains(t, text, `href="https://books.example.com"`)
}

func TestSendWelcome(t *testing.T) {
	cfg := initializers.MailConfig{
		From:        "books@example.com",
		Password:    "pw",
		SMTPHost:    "smtp.example.com",
		SMTPAddress: "smtp.example.com:587",
	}
	m := NewMailer(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.Equal(t, "books@example.com", from)
		return nil
	}

	require.NoError(t, m.SendWelcome("Alice", "alice@example.com"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Welcome to the Bookstore")
	assert.NotContains(t, string(gotMsg), "Browse the catalog", "no button without a frontend URL")
}
