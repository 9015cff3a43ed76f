// Package domain models location-tagged activities aggregated from
// heterogeneous community-event sources.
//
// # Data Model
//
// Everything that can be placed on the map is a [MapItem]: either an [Event]
// (time-bound, e.g. a meetup or conference) or a [Place] (static, e.g. a
// cafe or clinic). The variant set is closed; code that branches on
// [MapItem.Kind] can switch exhaustively over [KindEvent] and [KindPlace].
//
// # ID Conventions
//
// IDs are namespaced by the originating provider:
//
//	"connpass-986053"    Connpass event 986053
//	"doorkeeper-171283"  Doorkeeper event 171283
//	"tw-pycon-2025"      curated Taiwan list entry
//
// An ID is unique within one provider's result set only. The same
// real-world event may appear under two IDs when two sources list it;
// the aggregator deliberately does not deduplicate.
//
// # Coordinates
//
// Every item carries a WGS-84 coordinate pair. Sources that cannot resolve
// a venue fall back to a source-specific default (Tokyo for the Japanese
// platforms, Taipei for Taiwan ones) so the frontend can always render a
// marker. See the geocode package for how addresses become coordinates.
package domain
