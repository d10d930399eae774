package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	a "storefront-backend/internal/domains/address"
)

func TestLogNotifier_Levels(t *testing.T) {
	var buf bytes.Buffer
	n := &LogNotifier{logger: zerolog.New(&buf)}

	n.Notify(context.Background(), "u1", OpDelete, a.NewAddressNotFound("a1"))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"code":"ADDRESS_NOT_FOUND"`)
	assert.Contains(t, buf.String(), `"op":"delete_address"`)

	buf.Reset()
	n.Notify(context.Background(), "u1", OpFetch, a.NewReadFailed(errors.New("eof")))
	assert.Contains(t, buf.String(), `"level":"error"`)
}
