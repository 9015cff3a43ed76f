package domain

import (
	"strings"
	"time"
)

// Source identifies the platform an item was fetched from.
type Source string

const (
	SourceConnpass            Source = "CONNPASS"
	SourceTaiwanTechCommunity Source = "TAIWAN_TECH_COMMUNITY"
	SourceGoogleCommunity     Source = "GOOGLE_COMMUNITY"
	SourceAWSEvents           Source = "AWS_EVENTS"
	SourceMeetup              Source = "MEETUP"
	SourceTechPlay            Source = "TECHPLAY"
	SourceDoorkeeper          Source = "DOORKEEPER"
)

// Country classifies an item geographically for the country filter.
type Country string

const (
	CountryJapan   Country = "JAPAN"
	CountryTaiwan  Country = "TAIWAN"
	CountryDefault Country = "DEFAULT"
)

// CountryAll is the sentinel query value that disables country filtering.
const CountryAll = "ALL"

// ParseCountry maps a query parameter to a Country filter. Recognized codes
// are "TW"/"TAIWAN" and "JP"/"JAPAN", case-insensitive. Anything else,
// including "ALL" and the empty string, disables the filter (ok == false):
// an unrecognized code is a no-op, not an error.
func ParseCountry(code string) (Country, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "TW", "TAIWAN":
		return CountryTaiwan, true
	case "JP", "JAPAN":
		return CountryJapan, true
	default:
		return "", false
	}
}

// EventType categorizes time-bound events.
type EventType string

const (
	EventTechMeetup         EventType = "TECH_MEETUP"
	EventConference         EventType = "CONFERENCE"
	EventTechConference     EventType = "TECH_CONFERENCE"
	EventWorkshop           EventType = "WORKSHOP"
	EventCommunityGathering EventType = "COMMUNITY_GATHERING"
	EventStudyGroup         EventType = "STUDY_GROUP"
	EventHackathon          EventType = "HACKATHON"
)

// PlaceType categorizes static places.
type PlaceType string

const (
	PlaceClinic          PlaceType = "CLINIC"
	PlaceHospital        PlaceType = "HOSPITAL"
	PlaceCafe            PlaceType = "CAFE"
	PlaceCoworkingSpace  PlaceType = "COWORKING_SPACE"
	PlaceRestaurant      PlaceType = "RESTAURANT"
	PlaceLibrary         PlaceType = "LIBRARY"
	PlaceCommunityCenter PlaceType = "COMMUNITY_CENTER"
	PlaceOther           PlaceType = "OTHER"
)

// Kind discriminates the two MapItem variants.
type Kind string

const (
	KindEvent Kind = "event"
	KindPlace Kind = "place"
)

// Item holds the fields shared by every map item.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address,omitempty"`
	Source      Source      `json:"source"`
	Country     Country     `json:"country"`
}

// MapItem is the closed union of Event and Place. The unexported method
// keeps the variant set sealed to this package.
type MapItem interface {
	Common() Item
	Kind() Kind

	sealed()
}

// Event is a time-bound activity (meetup, conference, workshop).
// Zero Start/End mean the source did not publish a schedule.
type Event struct {
	Item
	Start     time.Time `json:"start_time,omitzero"`
	End       time.Time `json:"end_time,omitzero"`
	EventType EventType `json:"event_type"`
}

func (e Event) Common() Item { return e.Item }
func (Event) Kind() Kind     { return KindEvent }
func (Event) sealed()        {}

// Place is a static location (clinic, cafe, coworking space).
// BusinessHours is free text; formats vary too much across sources to
// parse into a structured schedule.
type Place struct {
	Item
	BusinessHours string    `json:"business_hours,omitempty"`
	PlaceType     PlaceType `json:"place_type"`
}

func (p Place) Common() Item { return p.Item }
func (Place) Kind() Kind     { return KindPlace }
func (Place) sealed()        {}
