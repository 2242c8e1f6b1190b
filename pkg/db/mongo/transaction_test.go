package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "toolrent/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func TestDefaultTransactionOptions(t *testing.T) {
	opts := DefaultTransactionOptions()

	require.NotNil(t, opts.ReadConcern)
	require.NotNil(t, opts.WriteConcern)
	require.NotNil(t, opts.ReadPreference)
	assert.Equal(t, readpref.PrimaryMode, opts.ReadPreference.Mode())
}

func TestTransactionError(t *testing.T) {
	conflict := apperrors.Conflict("taken")

	tests := []struct {
		name       string
		err        error
		wantNil    bool
		wantSame   bool
		wantStatus int
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "app error passes through", err: fmt.Errorf("wrapped: %w", conflict), wantSame: true},
		{name: "deadline", err: fmt.Errorf("commit: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout},
		{name: "other", err: errors.New("no primary"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transactionError(tt.err)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			require.Error(t, got)
			if tt.wantSame {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.Equal(t, tt.wantStatus, apperrors.AsAppError(got).StatusCode())
		})
	}
}
