// Package taiwantech serves a curated list of major Taiwan tech
// conferences and community events.
//
// The list is maintained by hand in events.yml and compiled into the
// binary; there is no single upstream API covering these events.
package taiwantech

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/koukeneko/wazai/internal/domain"
)

//go:embed events.yml
var eventsYAML []byte

// Provider implements the provider contract over the embedded event list.
type Provider struct {
	events []domain.Event
	logger *slog.Logger
}

// NewProvider parses the embedded list. A malformed list is a build
// artifact problem and fails construction outright.
func NewProvider(logger *slog.Logger) (*Provider, error) {
	events, err := parseEvents(eventsYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded events: %w", err)
	}
	logger.Info("loaded taiwan tech events", "count", len(events))
	return &Provider{events: events, logger: logger}, nil
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "Taiwan Tech Community" }

// Search implements provider.Provider. Everything is in memory, so a
// blank keyword returns the full list.
func (p *Provider) Search(_ context.Context, keyword string) ([]domain.MapItem, error) {
	items := make([]domain.MapItem, 0, len(p.events))
	for _, ev := range p.events {
		if domain.MatchesKeyword(ev, keyword) {
			items = append(items, ev)
		}
	}
	return items, nil
}

func parseEvents(raw []byte) ([]domain.Event, error) {
	var doc struct {
		Events []entry `yaml:"events"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(doc.Events))
	for _, e := range doc.Events {
		coords, err := domain.NewCoordinates(e.Latitude, e.Longitude)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.ID, err)
		}
		events = append(events, domain.Event{
			Item: domain.Item{
				ID:          e.ID,
				Title:       e.Title,
				Description: e.Description,
				URL:         e.URL,
				Coordinates: coords,
				Source:      domain.SourceTaiwanTechCommunity,
				Country:     domain.CountryTaiwan,
			},
			Start:     parseLocalTime(e.Start),
			End:       parseLocalTime(e.End),
			EventType: eventType(e.Type),
		})
	}
	return events, nil
}

func eventType(s string) domain.EventType {
	switch domain.EventType(s) {
	case domain.EventTechMeetup, domain.EventConference, domain.EventTechConference,
		domain.EventWorkshop, domain.EventCommunityGathering,
		domain.EventStudyGroup, domain.EventHackathon:
		return domain.EventType(s)
	default:
		return domain.EventConference
	}
}

// parseLocalTime reads the list's offset-less timestamps as Taipei time.
func parseLocalTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	cst := time.FixedZone("CST", 8*60*60)
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, cst)
	if err != nil {
		return time.Time{}
	}
	return t
}

type entry struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	URL         string  `yaml:"url"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	Start       string  `yaml:"start"`
	End         string  `yaml:"end"`
	Type        string  `yaml:"type"`
}
