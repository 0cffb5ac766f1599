package webhook

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camphaven/searchsync/internal/apperr"
)

const deliveryBody = `{
	"notifications": [
		{
			"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "content_item"},
			"data": {"system": {"codename": "pine_hollow", "language": "en-US"}}
		},
		{
			"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "asset"},
			"data": {"system": {"codename": "hero_photo", "language": "en-US"}}
		},
		{
			"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "content_item"},
			"data": {"system": {"codename": "river_trail", "language": "es-MX"}}
		}
	]
}`

func TestParseNotifications(t *testing.T) {
	got, err := ParseNotifications([]byte(deliveryBody))
	require.NoError(t, err)

	envID := uuid.MustParse("97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21")
	assert.Equal(t, []ItemNotification{
		{EnvironmentID: envID, Codename: "pine_hollow", Language: "en-US"},
		{EnvironmentID: envID, Codename: "river_trail", Language: "es-MX"},
	}, got, "asset notification should be dropped, order preserved")
}

func TestParseNotifications_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"notifications": [`},
		{name: "no notifications key", body: `{"items": []}`},
		{name: "empty notifications", body: `{"notifications": []}`},
		{
			name: "bad environment id",
			body: `{"notifications": [{
				"message": {"environment_id": "not-a-uuid", "object_type": "content_item"},
				"data": {"system": {"codename": "a", "language": "en-US"}}
			}]}`,
		},
		{
			name: "missing codename",
			body: `{"notifications": [{
				"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "content_item"},
				"data": {"system": {"language": "en-US"}}
			}]}`,
		},
		{
			name: "missing language",
			body: `{"notifications": [{
				"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "content_item"},
				"data": {"system": {"codename": "a"}}
			}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotifications([]byte(tt.body))
			require.Error(t, err)

			var invalid *apperr.InvalidPayloadError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestParseNotifications_OnlyForeignObjectTypes(t *testing.T) {
	body := `{"notifications": [{
		"message": {"environment_id": "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21", "object_type": "taxonomy"},
		"data": {"system": {"codename": "regions", "language": "en-US"}}
	}]}`

	got, err := ParseNotifications([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, got)
}
