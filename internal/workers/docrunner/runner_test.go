package docrunner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
	"lawbix/internal/ports/mocks"
)

type processorFunc func(ctx context.Context, documentID int64) (ports.DocumentOutput, error)

func (f processorFunc) Process(ctx context.Context, documentID int64) (ports.DocumentOutput, error) {
	return f(ctx, documentID)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestProcessInlineCompletes(t *testing.T) {
	repo := new(mocks.JobRepository)
	out := ports.DocumentOutput{StorageKey: "documents/1/a.pdf", URL: "/api/documents/download/4", SizeBytes: 10}
	repo.On("StartJobForDocument", mock.Anything, int64(4)).Return(int64(40), nil)
	repo.On("MarkCompleted", mock.Anything, int64(40), out).Return(nil)

	err := ProcessInline(context.Background(), repo, processorFunc(func(_ context.Context, id int64) (ports.DocumentOutput, error) {
		assert.Equal(t, int64(4), id)
		return out, nil
	}), 4)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProcessInlineMarksFailure(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("StartJobForDocument", mock.Anything, int64(4)).Return(int64(40), nil)
	repo.On("MarkFailed", mock.Anything, int64(40), assert.AnError.Error()).Return(nil)

	err := ProcessInline(context.Background(), repo, processorFunc(func(context.Context, int64) (ports.DocumentOutput, error) {
		return ports.DocumentOutput{}, assert.AnError
	}), 4)
	assert.ErrorIs(t, err, assert.AnError)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessInlineStartError(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("StartJobForDocument", mock.Anything, int64(4)).Return(int64(0), assert.AnError)

	called := false
	err := ProcessInline(context.Background(), repo, processorFunc(func(context.Context, int64) (ports.DocumentOutput, error) {
		called = true
		return ports.DocumentOutput{}, nil
	}), 4)
	assert.Error(t, err)
	assert.False(t, called)
}

func TestProcessInlineJobTakenByWorker(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("StartJobForDocument", mock.Anything, int64(4)).Return(int64(0), domain.ErrNotFound)

	err := ProcessInline(context.Background(), repo, processorFunc(func(context.Context, int64) (ports.DocumentOutput, error) {
		t.Fatal("processor must not run")
		return ports.DocumentOutput{}, nil
	}), 4)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	repo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunProcessesClaimedJobs(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("ClaimNext", mock.Anything).Return(ports.DocumentJob{ID: 1, DocumentID: 10}, true, nil).Once()
	repo.On("ClaimNext", mock.Anything).Return(ports.DocumentJob{ID: 2, DocumentID: 20}, true, nil).Once()
	repo.On("ClaimNext", mock.Anything).Return(ports.DocumentJob{}, false, nil)

	var mu sync.Mutex
	finished := map[int64]string{}
	repo.On("MarkCompleted", mock.Anything, int64(1), mock.Anything).Return(nil).Run(func(mock.Arguments) {
		mu.Lock()
		finished[1] = "completed"
		mu.Unlock()
	})
	repo.On("MarkFailed", mock.Anything, int64(2), "render failed").Return(nil).Run(func(mock.Arguments) {
		mu.Lock()
		finished[2] = "failed"
		mu.Unlock()
	})

	proc := processorFunc(func(_ context.Context, id int64) (ports.DocumentOutput, error) {
		if id == 20 {
			return ports.DocumentOutput{}, errors.New("render failed")
		}
		return ports.DocumentOutput{StorageKey: "k", SizeBytes: 1}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r := &Runner{Repo: repo, Processor: proc, Concurrency: 2, PollInterval: 5 * time.Millisecond, Logger: quietLogger()}
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(finished) == 2
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Equal(t, map[int64]string{1: "completed", 2: "failed"}, finished)
}

func TestRunWithoutWorkersReturns(t *testing.T) {
	r := &Runner{Repo: new(mocks.JobRepository), Concurrency: 0}
	r.Run(context.Background())
}
