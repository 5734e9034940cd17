package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarketCapLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"3000000000000", "$3 T"},
		{"1500000000000", "$1.5 T"},
		{"", ""},
		{"n/a", ""},
		{"0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, marketCapLabel(tt.raw))
		})
	}
}

func TestPublishRequest_Payload(t *testing.T) {
	t.Parallel()

	assert.JSONEq(t, `{}`, string(PublishRequest{}.Payload()))
	assert.JSONEq(t, `{}`, string(PublishRequest{Data: []byte("null")}.Payload()))
	assert.JSONEq(t, `{"a":1}`, string(PublishRequest{Data: []byte(`{"a":1}`)}.Payload()))
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ParseLimit(""))
	assert.Equal(t, 0, ParseLimit("ten"))
	assert.Equal(t, 25, ParseLimit("25"))
}
