package notifications_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/email"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/notifications"
	"github.com/markmed/fleetman/pkg/ratelimit"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(_ context.Context, rcpt notifications.Recipient, i notifications.Intent) (notifications.Message, error) {
	if r.err != nil {
		return notifications.Message{}, r.err
	}
	return notifications.Message{Subject: "Subject for " + rcpt.Name, BodyHTML: "<p>" + i.MessageKey() + "</p>"}, nil
}

func boolPtr(b bool) *bool { return &b }

func newLimiter(t *testing.T, limit int) *ratelimit.SlidingWindow {
	t.Helper()
	l, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), limit, time.Hour)
	require.NoError(t, err)
	return l
}

func TestNewEmailChannel(t *testing.T) {
	t.Parallel()

	dir := notifications.NewStaticDirectory()
	limiter := newLimiter(t, 1)
	sender := &MockSender{}
	renderer := stubRenderer{}

	_, err := notifications.NewEmailChannel(nil, limiter, sender, renderer)
	assert.ErrorIs(t, err, notifications.ErrChannelMisconfigured)
	_, err = notifications.NewEmailChannel(dir, nil, sender, renderer)
	assert.ErrorIs(t, err, notifications.ErrChannelMisconfigured)
	_, err = notifications.NewEmailChannel(dir, limiter, nil, renderer)
	assert.ErrorIs(t, err, notifications.ErrChannelMisconfigured)
	_, err = notifications.NewEmailChannel(dir, limiter, sender, nil)
	assert.ErrorIs(t, err, notifications.ErrChannelMisconfigured)
}

func TestEmailChannel_Send(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	owner := notifications.Recipient{AccountID: "acc-1", Email: "owner@example.com", Name: "Ana"}

	t.Run("sends when opted in by default", func(t *testing.T) {
		t.Parallel()
		sender := &MockSender{}
		sender.On("SendEmail", ctx, email.SendEmailParams{
			SendTo:   "owner@example.com",
			Subject:  "Subject for Ana",
			BodyHTML: "<p>notifications.maintenance.due</p>",
			Tag:      "maintenance",
		}).Return(nil).Once()

		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(owner), newLimiter(t, 5), sender, stubRenderer{},
			notifications.WithEmailChannelLogger(logger.Discard()))
		require.NoError(t, err)

		require.NoError(t, ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance)))
		sender.AssertExpectations(t)
	})

	t.Run("explicit opt-out", func(t *testing.T) {
		t.Parallel()
		rcpt := owner
		rcpt.EmailOptIn = boolPtr(false)
		sender := &MockSender{}
		limiter := newLimiter(t, 5)

		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(rcpt), limiter, sender, stubRenderer{})
		require.NoError(t, err)

		err = ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance))
		assert.ErrorIs(t, err, notifications.ErrOptedOut)
		assert.True(t, notifications.IsSkip(err))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)

		status, err := limiter.Status(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, 5, status.Remaining, "opted-out recipients do not consume budget")
	})

	t.Run("no address", func(t *testing.T) {
		t.Parallel()
		rcpt := owner
		rcpt.Email = ""

		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(rcpt), newLimiter(t, 5), &MockSender{}, stubRenderer{})
		require.NoError(t, err)
		assert.ErrorIs(t, ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance)), notifications.ErrNoDestination)
	})

	t.Run("rate limited after budget", func(t *testing.T) {
		t.Parallel()
		sender := &MockSender{}
		sender.On("SendEmail", ctx, mock.Anything).Return(nil).Twice()

		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(owner), newLimiter(t, 2), sender, stubRenderer{})
		require.NoError(t, err)

		intent := mustIntent(t, notifications.SourceMaintenance)
		require.NoError(t, ch.Send(ctx, intent))
		require.NoError(t, ch.Send(ctx, intent))
		assert.ErrorIs(t, ch.Send(ctx, intent), notifications.ErrRateLimited)
		sender.AssertNumberOfCalls(t, "SendEmail", 2)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		t.Parallel()
		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(), newLimiter(t, 5), &MockSender{}, stubRenderer{})
		require.NoError(t, err)

		err = ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance))
		assert.ErrorIs(t, err, notifications.ErrRecipientNotFound)
		assert.False(t, notifications.IsSkip(err))
	})

	t.Run("render and send failures surface", func(t *testing.T) {
		t.Parallel()
		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(owner), newLimiter(t, 5), &MockSender{},
			stubRenderer{err: notifications.ErrMissingTranslation})
		require.NoError(t, err)
		assert.ErrorIs(t, ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance)), notifications.ErrMissingTranslation)

		sender := &MockSender{}
		sender.On("SendEmail", ctx, mock.Anything).Return(email.ErrFailedToSendEmail)
		ch, err = notifications.NewEmailChannel(notifications.NewStaticDirectory(owner), newLimiter(t, 5), sender, stubRenderer{})
		require.NoError(t, err)
		assert.ErrorIs(t, ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance)), email.ErrFailedToSendEmail)
	})

	t.Run("limiter error", func(t *testing.T) {
		t.Parallel()
		ch, err := notifications.NewEmailChannel(notifications.NewStaticDirectory(owner), brokenLimiter{}, &MockSender{}, stubRenderer{})
		require.NoError(t, err)

		err = ch.Send(ctx, mustIntent(t, notifications.SourceMaintenance))
		assert.ErrorIs(t, err, ratelimit.ErrStoreFailure)
		assert.False(t, notifications.IsSkip(err))
	})
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return nil, errors.Join(ratelimit.ErrStoreFailure, errors.New("redis: connection refused"))
}

func (brokenLimiter) Status(context.Context, string) (*ratelimit.Result, error) {
	return nil, ratelimit.ErrStoreFailure
}

func (brokenLimiter) Reset(context.Context, string) error { return nil }
