package mpesa

import (
	"testing"

	"chai-duka/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		wantErr    bool
	}{
		{
			name:       "Local safaricom format",
			input:      "0712345678",
			normalized: "254712345678",
		},
		{
			name:       "Local 01 format",
			input:      "0112345678",
			normalized: "254112345678",
		},
		{
			name:       "International format",
			input:      "254712345678",
			normalized: "254712345678",
		},
		{
			name:       "International format with plus",
			input:      "+254712345678",
			normalized: "254712345678",
		},
		{
			name:       "Spaces and dashes stripped",
			input:      "0712 345-678",
			normalized: "254712345678",
		},
		{
			name:    "Too short",
			input:   "071234567",
			wantErr: true,
		},
		{
			name:    "Too long",
			input:   "07123456789",
			wantErr: true,
		},
		{
			name:    "Landline prefix",
			input:   "0201234567",
			wantErr: true,
		},
		{
			name:    "Non-Kenyan country code",
			input:   "+255712345678",
			wantErr: true,
		},
		{
			name:    "Letters",
			input:   "07one23456",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, model.ErrInvalidPhone, err)
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.normalized, got)
		})
	}
}
