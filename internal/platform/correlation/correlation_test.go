package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Length(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 8)
}

func TestNewID_Unique(t *testing.T) {
	ids := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		ids[NewID()] = struct{}{}
	}
	assert.Len(t, ids, 100)
}

func TestWithID_and_ID_Roundtrip(t *testing.T) {
	ctx := WithID(context.Background(), "abc12345")
	id, ok := ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc12345", id)
}

func TestID_Missing(t *testing.T) {
	id, ok := ID(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestStamp_GeneratesHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)

	ctx := Stamp(context.Background(), req)

	header := req.Header.Get(HeaderName)
	assert.Len(t, header, 8)

	id, ok := ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, header, id)
}

func TestStamp_ReusesExistingID(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)

	ctx := WithID(context.Background(), "deadbeef")
	Stamp(ctx, req)

	assert.Equal(t, "deadbeef", req.Header.Get(HeaderName))
}

func TestHandler_InjectsRequestID(t *testing.T) {
	var buf bytes.Buffer
	handler := NewHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	ctx := WithID(context.Background(), "abc12345")
	logger.InfoContext(ctx, "test message")

	assert.Contains(t, buf.String(), "request_id=abc12345")
}

func TestHandler_NoIDNoAttribute(t *testing.T) {
	var buf bytes.Buffer
	handler := NewHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.InfoContext(context.Background(), "test message")

	assert.NotContains(t, buf.String(), "request_id")
}
