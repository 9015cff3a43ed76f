package geocode

import (
	"strings"

	"github.com/dhconnelly/rtreego"

	"github.com/koukeneko/wazai/internal/domain"
)

// Entry is one known place name with its fixed coordinate.
type Entry struct {
	Name   string
	Coords domain.Coordinates
}

// Gazetteer is the offline name→coordinate lookup consulted before any
// network geocoder. Entries are ordered most specific first (Tokyo wards,
// then major cities, then prefectures) so a ward name inside an address is
// never shadowed by the prefecture that contains it.
//
// An R-tree over the same entries answers "nearest known place" queries,
// used to cross-check coordinates coming back from external geocoders.
type Gazetteer struct {
	entries []Entry
	index   *rtreego.Rtree
}

type spatialEntry struct {
	entry Entry
	rect  rtreego.Rect
}

func (s *spatialEntry) Bounds() rtreego.Rect { return s.rect }

// NewGazetteer builds the default gazetteer covering the Japanese and
// Taiwanese areas the providers serve.
func NewGazetteer() *Gazetteer {
	return NewGazetteerWithEntries(defaultEntries())
}

// NewGazetteerWithEntries builds a gazetteer from an explicit entry list,
// preserving the given order for substring lookup.
func NewGazetteerWithEntries(entries []Entry) *Gazetteer {
	tree := rtreego.NewTree(2, 4, 16)
	for _, e := range entries {
		p := rtreego.Point{e.Coords.Latitude, e.Coords.Longitude}
		tree.Insert(&spatialEntry{entry: e, rect: p.ToRect(0.001)})
	}
	return &Gazetteer{entries: entries, index: tree}
}

// Lookup substring-matches the address against the entry list and returns
// the first (most specific) hit.
func (g *Gazetteer) Lookup(address string) (domain.Coordinates, bool) {
	for _, e := range g.entries {
		if strings.Contains(address, e.Name) {
			return e.Coords, true
		}
	}
	return domain.Coordinates{}, false
}

// Nearest returns the known entry closest to c and its distance in km.
func (g *Gazetteer) Nearest(c domain.Coordinates) (Entry, float64, bool) {
	got := g.index.NearestNeighbor(rtreego.Point{c.Latitude, c.Longitude})
	se, ok := got.(*spatialEntry)
	if !ok {
		return Entry{}, 0, false
	}
	return se.entry, c.DistanceTo(se.entry.Coords), true
}

func defaultEntries() []Entry {
	coord := func(lat, lon float64) domain.Coordinates {
		return domain.Coordinates{Latitude: lat, Longitude: lon}
	}
	return []Entry{
		// Tokyo wards, before anything broader.
		{"渋谷区", coord(35.6640, 139.6982)},
		{"新宿区", coord(35.6938, 139.7034)},
		{"港区", coord(35.6581, 139.7514)},
		{"千代田区", coord(35.6940, 139.7536)},
		{"中央区", coord(35.6707, 139.7720)},
		{"品川区", coord(35.6092, 139.7302)},
		{"目黒区", coord(35.6413, 139.6983)},
		{"世田谷区", coord(35.6463, 139.6532)},
		{"大田区", coord(35.5613, 139.7160)},
		{"江東区", coord(35.6729, 139.8172)},
		{"墨田区", coord(35.7126, 139.8107)},
		{"台東区", coord(35.7125, 139.7800)},
		{"文京区", coord(35.7081, 139.7522)},
		{"豊島区", coord(35.7263, 139.7163)},
		{"北区", coord(35.7528, 139.7373)},
		{"荒川区", coord(35.7365, 139.7834)},
		{"板橋区", coord(35.7514, 139.7097)},
		{"練馬区", coord(35.7355, 139.6517)},
		{"足立区", coord(35.7752, 139.8045)},
		{"葛飾区", coord(35.7436, 139.8477)},
		{"江戸川区", coord(35.7067, 139.8683)},
		{"中野区", coord(35.7078, 139.6638)},
		{"杉並区", coord(35.6994, 139.6364)},

		// Major cities.
		{"横浜", coord(35.4437, 139.6380)},
		{"大阪", coord(34.6937, 135.5023)},
		{"名古屋", coord(35.1815, 136.9066)},
		{"札幌", coord(43.0618, 141.3545)},
		{"福岡", coord(33.5902, 130.4017)},
		{"神戸", coord(34.6901, 135.1956)},
		// 東京都 must precede 京都: the former contains the latter as a
		// substring and would otherwise geocode Tokyo addresses to Kyoto.
		{"東京都", coord(35.6812, 139.7671)},
		{"京都", coord(35.0116, 135.7681)},
		{"仙台", coord(38.2682, 140.8694)},
		{"広島", coord(34.3853, 132.4553)},
		{"さいたま", coord(35.8617, 139.6455)},
		{"千葉", coord(35.6073, 140.1063)},

		// Taiwan cities.
		{"台北", coord(25.0330, 121.5654)},
		{"臺北", coord(25.0330, 121.5654)},
		{"高雄", coord(22.6273, 120.3014)},
		{"台中", coord(24.1477, 120.6736)},
		{"新竹", coord(24.8138, 120.9675)},
		{"台南", coord(22.9998, 120.2269)},

		// Prefectures, last.
		{"神奈川県", coord(35.4478, 139.6425)},
		{"埼玉県", coord(35.8569, 139.6489)},
		{"千葉県", coord(35.6050, 140.1233)},
		{"大阪府", coord(34.6864, 135.5200)},
		{"愛知県", coord(35.1802, 136.9066)},
		{"北海道", coord(43.0646, 141.3468)},
		{"福岡県", coord(33.6064, 130.4180)},
		{"兵庫県", coord(34.6913, 135.1830)},
		{"京都府", coord(35.0214, 135.7556)},
		{"宮城県", coord(38.2688, 140.8721)},
		{"広島県", coord(34.3966, 132.4596)},
		{"静岡県", coord(34.9769, 138.3831)},
		{"岡山県", coord(34.6618, 133.9344)},
		{"茨城県", coord(36.3414, 140.4467)},
		{"新潟県", coord(37.9026, 139.0236)},
		{"長野県", coord(36.6513, 138.1810)},
		{"石川県", coord(36.5947, 136.6256)},
		{"沖縄県", coord(26.2124, 127.6809)},
	}
}
