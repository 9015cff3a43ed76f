package httpapi

import (
	"time"

	"github.com/koukeneko/wazai/internal/domain"
)

type searchResponse struct {
	Items []itemDTO `json:"items"`
	Count int       `json:"count"`
}

type providersResponse struct {
	Providers []string `json:"providers"`
}

// itemDTO flattens the Event/Place union for clients: one shape with a
// kind discriminator, coordinates split into plain lat/lon fields.
type itemDTO struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`

	Source  string `json:"source"`
	Country string `json:"country"`

	// Event fields.
	StartTime time.Time `json:"start_time,omitzero"`
	EndTime   time.Time `json:"end_time,omitzero"`
	EventType string    `json:"event_type,omitempty"`

	// Place fields.
	BusinessHours string `json:"business_hours,omitempty"`
	PlaceType     string `json:"place_type,omitempty"`
}

func toDTO(item domain.MapItem) itemDTO {
	common := item.Common()
	dto := itemDTO{
		ID:          common.ID,
		Kind:        string(item.Kind()),
		Title:       common.Title,
		Description: common.Description,
		URL:         common.URL,
		Latitude:    common.Coordinates.Latitude,
		Longitude:   common.Coordinates.Longitude,
		Address:     common.Address,
		Source:      string(common.Source),
		Country:     string(common.Country),
	}

	switch v := item.(type) {
	case domain.Event:
		dto.StartTime = v.Start
		dto.EndTime = v.End
		dto.EventType = string(v.EventType)
	case domain.Place:
		dto.BusinessHours = v.BusinessHours
		dto.PlaceType = string(v.PlaceType)
	}
	return dto
}
