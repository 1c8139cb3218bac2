package refdata

import (
	"fmt"
	"sort"
)

// The six nations, in fixed rotation order.
const (
	Austria = "austria"
	Italy   = "italy"
	France  = "france"
	Britain = "britain"
	Germany = "germany"
	Russia  = "russia"
)

var countryOrder = []string{Austria, Italy, France, Britain, Germany, Russia}

// Countries returns the nations in rotation order.
func Countries() []string {
	out := make([]string, len(countryOrder))
	copy(out, countryOrder)
	return out
}

// CountryIndex returns a nation's position in the rotation order.
func CountryIndex(name string) (int, error) {
	for i, c := range countryOrder {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown country: %s", name)
}

// Territory is one node of the board graph. Home is the owning nation
// for home provinces, empty for neutral land and sea spaces.
type Territory struct {
	Name      string   `json:"name"`
	Home      string   `json:"home,omitempty"`
	Sea       bool     `json:"sea,omitempty"`
	Port      bool     `json:"port,omitempty"`
	Neighbors []string `json:"neighbors"`
}

// Board is the read-only territory graph.
type Board struct {
	territories map[string]*Territory
}

type landDef struct {
	name string
	home string
	port bool
}

var landDefs = []landDef{
	// Austria
	{"vienna", Austria, false},
	{"budapest", Austria, false},
	{"prague", Austria, false},
	{"lemberg", Austria, false},
	{"trieste", Austria, true},
	// Italy
	{"rome", Italy, true},
	{"naples", Italy, true},
	{"genoa", Italy, true},
	{"venice", Italy, true},
	// France
	{"paris", France, false},
	{"bordeaux", France, true},
	{"marseille", France, true},
	{"brest", France, true},
	// Britain
	{"london", Britain, true},
	{"liverpool", Britain, true},
	{"edinburgh", Britain, true},
	{"dublin", Britain, true},
	// Germany
	{"berlin", Germany, false},
	{"cologne", Germany, false},
	{"munich", Germany, false},
	{"hamburg", Germany, true},
	{"danzig", Germany, true},
	// Russia
	{"moscow", Russia, false},
	{"warsaw", Russia, false},
	{"kiev", Russia, false},
	{"st petersburg", Russia, true},
	{"odessa", Russia, true},
	// Neutral lands
	{"norway", "", true},
	{"sweden", "", true},
	{"denmark", "", true},
	{"holland", "", true},
	{"belgium", "", true},
	{"switzerland", "", false},
	{"spain", "", true},
	{"portugal", "", true},
	{"morocco", "", true},
	{"algeria", "", true},
	{"tunis", "", true},
	{"tripoli", "", true},
	{"serbia", "", false},
	{"greece", "", true},
	{"bulgaria", "", true},
	{"romania", "", true},
	{"turkey", "", true},
}

var seaDefs = []string{
	"north atlantic",
	"north sea",
	"baltic sea",
	"english channel",
	"bay of biscay",
	"western mediterranean",
	"ionian sea",
	"adriatic sea",
	"eastern mediterranean",
	"black sea",
}

// edgeDefs is the undirected adjacency list; symmetry is established
// at construction so a one-sided entry here cannot skew the graph.
var edgeDefs = [][2]string{
	// sea lanes
	{"north atlantic", "north sea"},
	{"north atlantic", "english channel"},
	{"north atlantic", "bay of biscay"},
	{"north sea", "english channel"},
	{"north sea", "baltic sea"},
	{"english channel", "bay of biscay"},
	{"bay of biscay", "western mediterranean"},
	{"western mediterranean", "ionian sea"},
	{"ionian sea", "adriatic sea"},
	{"ionian sea", "eastern mediterranean"},
	{"eastern mediterranean", "black sea"},
	// ports to seas
	{"trieste", "adriatic sea"},
	{"venice", "adriatic sea"},
	{"rome", "western mediterranean"},
	{"genoa", "western mediterranean"},
	{"naples", "ionian sea"},
	{"bordeaux", "bay of biscay"},
	{"marseille", "western mediterranean"},
	{"brest", "english channel"},
	{"brest", "north atlantic"},
	{"london", "english channel"},
	{"london", "north sea"},
	{"liverpool", "north atlantic"},
	{"edinburgh", "north sea"},
	{"dublin", "north atlantic"},
	{"hamburg", "north sea"},
	{"danzig", "baltic sea"},
	{"st petersburg", "baltic sea"},
	{"odessa", "black sea"},
	{"norway", "north sea"},
	{"sweden", "baltic sea"},
	{"denmark", "north sea"},
	{"denmark", "baltic sea"},
	{"holland", "north sea"},
	{"belgium", "north sea"},
	{"belgium", "english channel"},
	{"spain", "bay of biscay"},
	{"spain", "western mediterranean"},
	{"portugal", "north atlantic"},
	{"morocco", "north atlantic"},
	{"morocco", "western mediterranean"},
	{"algeria", "western mediterranean"},
	{"tunis", "ionian sea"},
	{"tripoli", "ionian sea"},
	{"greece", "ionian sea"},
	{"bulgaria", "black sea"},
	{"romania", "black sea"},
	{"turkey", "black sea"},
	{"turkey", "eastern mediterranean"},
	// land borders
	{"vienna", "budapest"},
	{"vienna", "prague"},
	{"vienna", "trieste"},
	{"vienna", "munich"},
	{"budapest", "lemberg"},
	{"budapest", "romania"},
	{"budapest", "serbia"},
	{"budapest", "trieste"},
	{"prague", "munich"},
	{"prague", "berlin"},
	{"lemberg", "warsaw"},
	{"lemberg", "kiev"},
	{"lemberg", "romania"},
	{"trieste", "venice"},
	{"trieste", "serbia"},
	{"venice", "genoa"},
	{"venice", "switzerland"},
	{"genoa", "rome"},
	{"genoa", "marseille"},
	{"genoa", "switzerland"},
	{"rome", "naples"},
	{"paris", "brest"},
	{"paris", "bordeaux"},
	{"paris", "marseille"},
	{"paris", "belgium"},
	{"paris", "switzerland"},
	{"marseille", "spain"},
	{"marseille", "switzerland"},
	{"bordeaux", "spain"},
	{"london", "liverpool"},
	{"london", "edinburgh"},
	{"liverpool", "edinburgh"},
	{"berlin", "hamburg"},
	{"berlin", "danzig"},
	{"berlin", "munich"},
	{"berlin", "cologne"},
	{"hamburg", "cologne"},
	{"hamburg", "denmark"},
	{"cologne", "belgium"},
	{"cologne", "holland"},
	{"munich", "switzerland"},
	{"danzig", "warsaw"},
	{"moscow", "st petersburg"},
	{"moscow", "warsaw"},
	{"moscow", "kiev"},
	{"kiev", "odessa"},
	{"odessa", "romania"},
	{"serbia", "bulgaria"},
	{"serbia", "greece"},
	{"serbia", "romania"},
	{"bulgaria", "romania"},
	{"bulgaria", "greece"},
	{"bulgaria", "turkey"},
	{"spain", "portugal"},
	{"morocco", "algeria"},
	{"algeria", "tunis"},
	{"tunis", "tripoli"},
	{"norway", "sweden"},
	{"holland", "belgium"},
}

func defaultBoard() *Board {
	b := &Board{territories: make(map[string]*Territory)}
	for _, def := range landDefs {
		b.territories[def.name] = &Territory{
			Name: def.name,
			Home: def.home,
			Port: def.port,
		}
	}
	for _, name := range seaDefs {
		b.territories[name] = &Territory{Name: name, Sea: true}
	}
	for _, edge := range edgeDefs {
		from, ok := b.territories[edge[0]]
		if !ok {
			panic(fmt.Sprintf("edge references unknown territory: %s", edge[0]))
		}
		to, ok := b.territories[edge[1]]
		if !ok {
			panic(fmt.Sprintf("edge references unknown territory: %s", edge[1]))
		}
		from.Neighbors = append(from.Neighbors, to.Name)
		to.Neighbors = append(to.Neighbors, from.Name)
	}
	for _, t := range b.territories {
		sort.Strings(t.Neighbors)
	}
	return b
}

// Territory looks up a territory by name.
func (b *Board) Territory(name string) (*Territory, error) {
	t, ok := b.territories[name]
	if !ok {
		return nil, fmt.Errorf("unknown territory: %s", name)
	}
	return t, nil
}

// AreAdjacent reports whether two territories share an edge.
func (b *Board) AreAdjacent(a, c string) bool {
	t, ok := b.territories[a]
	if !ok {
		return false
	}
	for _, n := range t.Neighbors {
		if n == c {
			return true
		}
	}
	return false
}

// HomeTerritories returns a nation's home provinces, sorted by name.
func (b *Board) HomeTerritories(country string) []string {
	var homes []string
	for _, t := range b.territories {
		if t.Home == country {
			homes = append(homes, t.Name)
		}
	}
	sort.Strings(homes)
	return homes
}

// TerritoryNames returns every territory name, sorted.
func (b *Board) TerritoryNames() []string {
	names := make([]string, 0, len(b.territories))
	for name := range b.territories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
