package complete_questionnaire

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-OpenHouseService/pkg/logger"
)

type fakeBookingRepo struct {
	pending   map[string]*domain.Booking
	marked    map[int64]bool
	findErr   error
	lastEmail string
}

func (r *fakeBookingRepo) FindPendingQuestionnaire(_ context.Context, email string) (*domain.Booking, error) {
	r.lastEmail = email
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.pending[email]
	if !ok || r.marked[b.ID] {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) MarkQuestionnaireCompleted(_ context.Context, id int64) (bool, error) {
	if r.marked[id] {
		return false, nil
	}
	r.marked[id] = true
	return true, nil
}

type fakeNotifier struct {
	kinds []domain.NotificationKind
	err   error
}

func (n *fakeNotifier) Enqueue(_ context.Context, _ int64, kind domain.NotificationKind) error {
	if n.err != nil {
		return n.err
	}
	n.kinds = append(n.kinds, kind)
	return nil
}

func newRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		pending: map[string]*domain.Booking{
			"anna@example.com": {ID: 42, Status: domain.StatusConfirmed},
		},
		marked: map[int64]bool{},
	}
}

func TestExecute_MarksAndQueuesBrochure(t *testing.T) {
	repo := newRepo()
	notifier := &fakeNotifier{}
	uc := NewUseCase(repo, notifier, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{Email: "  Anna@Example.com "})
	require.NoError(t, err)

	assert.Equal(t, "Anna@Example.com", repo.lastEmail)
	assert.Equal(t, &Response{Matched: true, BookingID: 42, BrochureQueued: true}, resp)
	assert.True(t, repo.marked[42])
	assert.Equal(t, []domain.NotificationKind{domain.NotificationBrochure}, notifier.kinds)
}

func TestExecute_SecondWebhookIsNoop(t *testing.T) {
	repo := newRepo()
	notifier := &fakeNotifier{}
	uc := NewUseCase(repo, notifier, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{Email: "anna@example.com"})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{Email: "anna@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.Matched)
	assert.Len(t, notifier.kinds, 1)
}

func TestExecute_UnknownClient(t *testing.T) {
	uc := NewUseCase(newRepo(), &fakeNotifier{}, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.Matched)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("empty email", func(t *testing.T) {
		uc := NewUseCase(newRepo(), &fakeNotifier{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{Email: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := newRepo()
		repo.findErr = errors.New("connection reset")
		uc := NewUseCase(repo, &fakeNotifier{}, logger.Nop())
		_, err := uc.Execute(context.Background(), &Request{Email: "anna@example.com"})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("enqueue failure keeps mark", func(t *testing.T) {
		repo := newRepo()
		uc := NewUseCase(repo, &fakeNotifier{err: errors.New("queue down")}, logger.Nop())
		resp, err := uc.Execute(context.Background(), &Request{Email: "anna@example.com"})
		require.NoError(t, err)
		assert.True(t, resp.Matched)
		assert.False(t, resp.BrochureQueued)
		assert.True(t, repo.marked[42])
	})
}
