package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryErr(t *testing.T) {
	tests := []struct {
		name      string
		maxTries  int
		failUntil int
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "succeeds first try",
			maxTries:  3,
			failUntil: 0,
			wantErr:   false,
			wantCalls: 1,
		},
		{
			name:      "succeeds after retries",
			maxTries:  3,
			failUntil: 2,
			wantErr:   false,
			wantCalls: 3,
		},
		{
			name:      "exhausts all tries",
			maxTries:  3,
			failUntil: 5,
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name:      "zero maxTries defaults to one",
			maxTries:  0,
			failUntil: 0,
			wantErr:   false,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryErr(tt.maxTries, func() error {
				calls++
				if calls <= tt.failUntil {
					return errors.New("transient")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("RetryErr() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("RetryErr() calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithContext(t *testing.T) {
	t.Run("returns result after transient failures", func(t *testing.T) {
		calls := 0
		got, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("RetryWithContext() error = %v", err)
		}
		if got != "ok" {
			t.Errorf("RetryWithContext() = %q, want %q", got, "ok")
		}
		if calls != 2 {
			t.Errorf("RetryWithContext() calls = %d, want 2", calls)
		}
	})

	t.Run("canceled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("should not retry")
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("RetryWithContext() error = %v, want context.Canceled", err)
		}
		if calls != 0 {
			t.Errorf("RetryWithContext() calls = %d, want 0", calls)
		}
	})

	t.Run("deadline error from fn short-circuits", func(t *testing.T) {
		calls := 0
		_, err := RetryWithContext(context.Background(), 5, func(ctx context.Context) (int, error) {
			calls++
			return 0, context.DeadlineExceeded
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("RetryWithContext() error = %v, want context.DeadlineExceeded", err)
		}
		if calls != 1 {
			t.Errorf("RetryWithContext() calls = %d, want 1", calls)
		}
	})
}
