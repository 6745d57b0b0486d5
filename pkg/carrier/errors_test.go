package carrier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *carrier.Error
		want string
	}{
		{
			name: "configuration",
			err:  carrier.NewConfigurationError("mercury_mes", "credentials are not configured"),
			want: "mercury_mes configuration error: credentials are not configured",
		},
		{
			name: "provider with code",
			err:  carrier.NewProviderError("mercury_mes", 515, "duplicate token"),
			want: "mercury_mes provider error (code 515): duplicate token",
		},
		{
			name: "transport with cause",
			err:  carrier.NewTransportError("mercury_mes", "request failed", errors.New("connection refused")),
			want: "mercury_mes transport error: request failed: connection refused",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := carrier.NewTransportError("mercury_mes", "request failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_WithCause_Sentinel(t *testing.T) {
	err := carrier.NewProviderError("mercury_mes", 515, "duplicate token").
		WithCause(carrier.ErrDuplicateReference)

	assert.True(t, errors.Is(err, carrier.ErrDuplicateReference))
	assert.False(t, errors.Is(err, carrier.ErrMissingAddress))
}

func TestError_Is_MatchesKindAndCode(t *testing.T) {
	err := carrier.NewProviderError("mercury_mes", 515, "duplicate token")

	assert.True(t, errors.Is(err, &carrier.Error{Kind: carrier.KindProvider}))
	assert.True(t, errors.Is(err, &carrier.Error{Kind: carrier.KindProvider, Code: 515}))
	assert.False(t, errors.Is(err, &carrier.Error{Kind: carrier.KindProvider, Code: 500}))
	assert.False(t, errors.Is(err, &carrier.Error{Kind: carrier.KindTransport}))
}

func TestError_As(t *testing.T) {
	wrapped := fmt.Errorf("booking: %w",
		carrier.NewMappingError("mercury_mes", "no country mapping"))

	var ce *carrier.Error
	require.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, carrier.KindMapping, ce.Kind)
	assert.Equal(t, "mercury_mes", ce.Carrier)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, carrier.KindMapping,
		carrier.KindOf(carrier.NewMappingError("mercury_mes", "bad address")))
	assert.Equal(t, carrier.KindProvider,
		carrier.KindOf(fmt.Errorf("wrapped: %w", carrier.NewProviderError("mercury_mes", 500, "down"))))
	assert.Equal(t, carrier.Kind(""), carrier.KindOf(errors.New("plain")))
	assert.Equal(t, carrier.Kind(""), carrier.KindOf(nil))
}
