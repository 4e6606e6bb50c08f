package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/email"
)

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "owner@example.com",
		Subject:  "Maintenance due",
		BodyHTML: "<p>Service the excavator</p>",
		Tag:      "maintenance",
	}
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
		errMsg string
	}{
		{name: "valid params", mutate: func(*email.SendEmailParams) {}},
		{name: "valid without tag", mutate: func(p *email.SendEmailParams) { p.Tag = "" }},
		{name: "plus addressing", mutate: func(p *email.SendEmailParams) { p.SendTo = "fleet.ops+alerts@sub.example.com" }},
		{name: "empty SendTo", mutate: func(p *email.SendEmailParams) { p.SendTo = "" }, errMsg: "SendTo is required"},
		{name: "blank SendTo", mutate: func(p *email.SendEmailParams) { p.SendTo = "   " }, errMsg: "SendTo is required"},
		{name: "invalid SendTo", mutate: func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }, errMsg: "SendTo must be a valid email address"},
		{name: "missing domain", mutate: func(p *email.SendEmailParams) { p.SendTo = "owner@" }, errMsg: "SendTo must be a valid email address"},
		{name: "empty Subject", mutate: func(p *email.SendEmailParams) { p.Subject = " " }, errMsg: "Subject is required"},
		{name: "empty BodyHTML", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, errMsg: "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes html and envelope", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "emails")
		sender := email.NewDevSender(dir)

		require.NoError(t, sender.SendEmail(context.Background(), validParams()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".html":
				htmlFile = e.Name()
			case ".json":
				jsonFile = e.Name()
			}
		}
		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)
		assert.True(t, strings.HasSuffix(htmlFile, "_maintenance.html"))

		body, err := os.ReadFile(filepath.Join(dir, htmlFile))
		require.NoError(t, err)
		assert.Equal(t, "<p>Service the excavator</p>", string(body))

		raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)
		var envelope map[string]string
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, "owner@example.com", envelope["send_to"])
		assert.Equal(t, "Maintenance due", envelope["subject"])
		assert.Equal(t, htmlFile, envelope["html_file"])
	})

	t.Run("sequential sends do not collide", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		for range 3 {
			require.NoError(t, sender.SendEmail(context.Background(), validParams()))
		}
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 6)
	})

	t.Run("invalid params write nothing", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "out")
		sender := email.NewDevSender(dir)

		p := validParams()
		p.SendTo = "broken"
		assert.ErrorIs(t, sender.SendEmail(context.Background(), p), email.ErrInvalidParams)
		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("subject used when tag missing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		p := validParams()
		p.Tag = ""
		p.Subject = "Oil Change / Due!"
		require.NoError(t, sender.SendEmail(context.Background(), p))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Contains(t, e.Name(), "oil_change__due")
		}
	})
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}

	client, err := email.NewPostmarkClient(valid)
	require.NoError(t, err)
	assert.NotNil(t, client)

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{name: "missing server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }},
		{name: "missing account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{name: "missing sender", mutate: func(c *email.Config) { c.SenderEmail = "" }},
		{name: "invalid sender", mutate: func(c *email.Config) { c.SenderEmail = "noreply" }},
		{name: "missing support", mutate: func(c *email.Config) { c.SupportEmail = "" }},
		{name: "invalid support", mutate: func(c *email.Config) { c.SupportEmail = "support@" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestPostmarkClient_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	client, err := email.NewPostmarkClient(email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	})
	require.NoError(t, err)

	err = client.SendEmail(context.Background(), email.SendEmailParams{SendTo: "owner@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	sender, err := email.NewFromConfig(email.Config{DevDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, sender)

	sender, err = email.NewFromConfig(email.Config{
		PostmarkServerToken:  "s",
		PostmarkAccountToken: "a",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, sender)
}
