package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camphaven/searchsync/internal/content"
)

const campgroundItemJSON = `{
	"system": {
		"id": "f4b3fc05-e988-4dae-9ac1-a94aba566474",
		"name": "Pine Hollow",
		"codename": "pine_hollow",
		"language": "en-US",
		"type": "campground",
		"collection": "default"
	},
	"elements": {
		"name": {"type": "text", "name": "Name", "value": "Pine Hollow Campground"},
		"url": {"type": "url_slug", "name": "URL", "value": "pine-hollow"},
		"phone": {"type": "text", "name": "Phone", "value": "555-0102"},
		"email": {"type": "text", "name": "Email", "value": "stay@pinehollow.example"},
		"google_place_id": {"type": "text", "name": "Google Place ID", "value": "ChIJpine123"},
		"latitude": {"type": "number", "name": "Latitude", "value": 44.052},
		"longitude": {"type": "number", "name": "Longitude", "value": -121.31},
		"amenities": {"type": "taxonomy", "name": "Amenities", "value": [
			{"name": "Showers", "codename": "showers"},
			{"name": "Fire rings", "codename": "fire_rings"}
		]},
		"ways_to_stay": {"type": "taxonomy", "name": "Ways to stay", "value": [
			{"name": "Tent", "codename": "tent"},
			{"name": "RV", "codename": "rv"}
		]},
		"region": {"type": "taxonomy", "name": "Region", "value": [
			{"name": "Central Oregon", "codename": "central_oregon"},
			{"name": "Cascades", "codename": "cascades"}
		]},
		"address": {"type": "text", "name": "Address", "value": "123 Main St\nAnytown, CA 90210"},
		"description": {"type": "rich_text", "name": "Description", "value": "<p>Shaded&nbsp;sites near the <b>river</b>.</p>"}
	}
}`

func decodeItem(t *testing.T, raw string) content.Item {
	t.Helper()
	var it content.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	return it
}

func TestRegistry_CampgroundRecord(t *testing.T) {
	it := decodeItem(t, campgroundItemJSON)

	rec := NewRegistry("url").Build(it, content.Graph{})
	camp, ok := rec.(CampgroundRecord)
	require.True(t, ok, "campground type must build the structured shape")

	assert.Equal(t, "f4b3fc05-e988-4dae-9ac1-a94aba566474_en-US", camp.Key())
	assert.Equal(t, "f4b3fc05-e988-4dae-9ac1-a94aba566474", camp.ID)
	assert.Equal(t, "pine_hollow", camp.Codename)
	assert.Equal(t, "Pine Hollow Campground", camp.Name, "name element overrides the system name")
	assert.Equal(t, "en-US", camp.Language)
	assert.Equal(t, "campground", camp.Type)
	assert.Equal(t, "default", camp.Collection)
	assert.Equal(t, "pine-hollow", camp.Slug)

	assert.Equal(t, "555-0102", camp.Phone)
	assert.Equal(t, "stay@pinehollow.example", camp.Email)
	assert.Equal(t, "ChIJpine123", camp.GooglePlaceID)
	require.NotNil(t, camp.Latitude)
	require.NotNil(t, camp.Longitude)
	assert.InDelta(t, 44.052, *camp.Latitude, 1e-9)
	assert.InDelta(t, -121.31, *camp.Longitude, 1e-9)
	assert.Equal(t, []string{"showers", "fire_rings"}, camp.Amenities)
	assert.Equal(t, []string{"tent", "rv"}, camp.WaysToStay)
	assert.Equal(t, "central_oregon", camp.Region, "region takes the first selected term")
	assert.Equal(t, "123 Main St\nAnytown, CA 90210", camp.Address)
	assert.Equal(t, "Anytown", camp.City)
	assert.Equal(t, "CA", camp.State)
	assert.Equal(t, "90210", camp.Zip)
	assert.Equal(t, "Shaded sites near the river.", camp.Description)

	assert.Empty(t, camp.Content)
}

func TestRegistry_CampgroundSerializesEmptyContent(t *testing.T) {
	it := decodeItem(t, campgroundItemJSON)

	rec := NewRegistry("url").Build(it, content.Graph{})
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"content":[]`)
	assert.Contains(t, string(raw), `"objectID":"f4b3fc05-e988-4dae-9ac1-a94aba566474_en-US"`)
}

func TestRegistry_CampgroundAbsentFieldsStayAbsent(t *testing.T) {
	it := decodeItem(t, `{
		"system": {
			"id": "11111111-2222-3333-4444-555555555555",
			"name": "Bare Camp",
			"codename": "bare_camp",
			"language": "en-US",
			"type": "campground",
			"collection": "default"
		},
		"elements": {}
	}`)

	rec := NewRegistry("url").Build(it, content.Graph{})
	camp, ok := rec.(CampgroundRecord)
	require.True(t, ok)

	assert.Equal(t, "Bare Camp", camp.Name, "system name stands in when the name element is unset")
	assert.Nil(t, camp.Latitude)
	assert.Nil(t, camp.Longitude)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	s := string(raw)
	assert.NotContains(t, s, `"phone"`)
	assert.NotContains(t, s, `"latitude"`)
	assert.NotContains(t, s, `"amenities"`)
	assert.NotContains(t, s, `"region"`)
	assert.NotContains(t, s, `"city"`)
	assert.NotContains(t, s, `"slug"`)
	assert.Contains(t, s, `"address":""`, "address alone defaults to an empty string")
}

func TestRegistry_CampgroundBadAddressLeavesPartsAbsent(t *testing.T) {
	it := decodeItem(t, `{
		"system": {
			"id": "11111111-2222-3333-4444-555555555555",
			"name": "Bare Camp",
			"codename": "bare_camp",
			"language": "en-US",
			"type": "campground",
			"collection": "default"
		},
		"elements": {
			"address": {"type": "text", "name": "Address", "value": "123 Main St"}
		}
	}`)

	rec := NewRegistry("url").Build(it, content.Graph{})
	camp := rec.(CampgroundRecord)

	assert.Equal(t, "123 Main St", camp.Address)
	assert.Empty(t, camp.City)
	assert.Empty(t, camp.State)
	assert.Empty(t, camp.Zip)
}

func TestRegistry_GenericRecord(t *testing.T) {
	root := decodeItem(t, `{
		"system": {
			"id": "root-id",
			"name": "About",
			"codename": "about",
			"language": "en-US",
			"type": "page",
			"collection": "default"
		},
		"elements": {
			"body": {"type": "rich_text", "name": "Body", "value": "<p>About&nbsp;our parks</p>"},
			"links": {"type": "modular_content", "name": "Links", "value": ["pine_hollow"]}
		}
	}`)
	camp := decodeItem(t, campgroundItemJSON)
	g := content.Graph{"about": root, "pine_hollow": camp}

	rec := NewRegistry("url").Build(root, g)
	gen, ok := rec.(GenericRecord)
	require.True(t, ok, "unmapped types must build the generic shape")

	assert.Equal(t, "root-id_en-US", gen.Key())
	assert.Equal(t, "About", gen.Name)
	assert.Empty(t, gen.Slug)

	require.Len(t, gen.Content, 1)
	block := gen.Content[0]
	assert.Equal(t, "About our parks", block.Contents)
	assert.Equal(t, []string{"f4b3fc05-e988-4dae-9ac1-a94aba566474"}, block.Parents,
		"slugged campground is referenced, not inlined")
}
