package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentiment_backend/internal/feature/sentiment/usecase"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AAPL", usecase.NormalizeSymbol(""))
	assert.Equal(t, "TSLA", usecase.NormalizeSymbol(" tsla "))
	assert.Equal(t, "stocks", usecase.NormalizeSubreddit(""))
	assert.Equal(t, "investing", usecase.NormalizeSubreddit("r/Investing"))
	assert.Equal(t, 10, usecase.NormalizeLimit(-1))
	assert.Equal(t, 7, usecase.NormalizeLimit(7))
	assert.Equal(t, 100, usecase.NormalizeLimit(101))
}

func TestNormalizeWebhookPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "custom", want: "custom"},
		{in: "/analytics/x/", want: "analytics/x"},
		{in: "", wantErr: usecase.ErrWebhookPathRequired},
		{in: "a/../b", wantErr: usecase.ErrInvalidWebhookPath},
		{in: "http://evil", wantErr: usecase.ErrInvalidWebhookPath},
		{in: "a#b", wantErr: usecase.ErrInvalidWebhookPath},
		{in: "%2e%2e/%2e%2e/rest/admin", wantErr: usecase.ErrInvalidWebhookPath},
		{in: "a/%2E%2E/b", wantErr: usecase.ErrInvalidWebhookPath},
		{in: "a%2fb", wantErr: usecase.ErrInvalidWebhookPath},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := usecase.NormalizeWebhookPath(tc.in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
