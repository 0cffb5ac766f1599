// Package webhook parses and authenticates change notifications sent by
// the content store.
package webhook

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/camphaven/searchsync/internal/apperr"
)

// ObjectTypeContentItem is the message discriminator for item-change
// notifications. Deliveries also carry asset, taxonomy and language
// events, which this pipeline does not index.
const ObjectTypeContentItem = "content_item"

// ItemNotification is one content-item change surviving the filter.
type ItemNotification struct {
	EnvironmentID uuid.UUID
	Codename      string
	Language      string
}

type payload struct {
	Notifications []notification `json:"notifications"`
}

type notification struct {
	Message struct {
		EnvironmentID string `json:"environment_id"`
		ObjectType    string `json:"object_type"`
	} `json:"message"`
	Data struct {
		System struct {
			Codename string `json:"codename"`
			Language string `json:"language"`
		} `json:"system"`
	} `json:"data"`
}

// ParseNotifications validates the raw webhook body and returns the
// item-change notifications it carries, in delivery order. Messages
// with another object type are dropped silently. A malformed body, an
// absent or empty notifications list, or an item notification missing
// its identity fields is an *apperr.InvalidPayloadError.
func ParseNotifications(body []byte) ([]ItemNotification, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, apperr.NewInvalidPayloadWrap("malformed webhook body", err)
	}
	if len(p.Notifications) == 0 {
		return nil, apperr.NewInvalidPayload("webhook body contains no notifications")
	}

	items := make([]ItemNotification, 0, len(p.Notifications))
	for _, n := range p.Notifications {
		if n.Message.ObjectType != ObjectTypeContentItem {
			slog.Debug("skipping non item notification", "object_type", n.Message.ObjectType)
			continue
		}
		envID, err := uuid.Parse(n.Message.EnvironmentID)
		if err != nil {
			return nil, apperr.NewInvalidPayloadWrap("notification has invalid environment id", err)
		}
		if n.Data.System.Codename == "" || n.Data.System.Language == "" {
			return nil, apperr.NewInvalidPayload("item notification is missing codename or language")
		}
		items = append(items, ItemNotification{
			EnvironmentID: envID,
			Codename:      n.Data.System.Codename,
			Language:      n.Data.System.Language,
		})
	}
	return items, nil
}
