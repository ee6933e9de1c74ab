package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oasir/oaserrors"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{name: "exactly one", sources: []bool{false, true, false}},
		{name: "none", sources: []bool{false, false}, wantErr: "must specify an input source"},
		{name: "two", sources: []bool{true, true}, wantErr: "exactly one input source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("loader", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, "loader: ")
			assert.ErrorContains(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, oaserrors.ErrConfig))
		})
	}
}
