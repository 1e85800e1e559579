package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArticleID(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    string
		expectError bool
	}{
		"should extract UUID from canonical JSON URL": {
			input:    "https://source.example.com/articles/3fa85f64-5717-4562-b3fc-2c963f66afa6.json",
			expected: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		},
		"should extract UUID without extension": {
			input:    "https://source.example.com/articles/3fa85f64-5717-4562-b3fc-2c963f66afa6",
			expected: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		},
		"should ignore query parameters": {
			input:    "https://source.example.com/a/3fa85f64-5717-4562-b3fc-2c963f66afa6.json?rev=2",
			expected: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		},
		"should ignore fragment": {
			input:    "https://source.example.com/a/3fa85f64-5717-4562-b3fc-2c963f66afa6.json#top",
			expected: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		},
		"should extract uppercase UUID": {
			input:    "https://source.example.com/a/3FA85F64-5717-4562-B3FC-2C963F66AFA6.json",
			expected: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		},
		"should reject URL without UUID": {
			input:       "https://source.example.com/articles/latest.json",
			expectError: true,
		},
		"should reject short final segment": {
			input:       "https://source.example.com/a/abc.json",
			expectError: true,
		},
		"should reject malformed literal of correct length": {
			input:       "https://source.example.com/a/3fa85f64_5717_4562_b3fc_2c963f66afa6.json",
			expectError: true,
		},
		"should reject empty URL": {
			input:       "",
			expectError: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := ExtractArticleID(tc.input)

			if tc.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidIdentity))
				assert.Equal(t, uuid.Nil, id)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, id.String())
		})
	}
}

func TestExtractArticleID_IsDeterministic(t *testing.T) {
	url := "https://source.example.com/articles/3fa85f64-5717-4562-b3fc-2c963f66afa6.json"

	first, err := ExtractArticleID(url)
	require.NoError(t, err)

	second, err := ExtractArticleID(url)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
