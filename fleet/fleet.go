// Package fleet reads and writes saved fleet files.
//
// A fleet file is a single <Fleet> document. Ships carry hull sockets
// whose component state is polymorphic and selected by xsi:type, see
// ComponentPayloads and HullConfigurations.
package fleet

import (
	"io"

	"github.com/KimNorgaard/go-fleetxml"
)

// HullSocket is a mounting point on a hull and the component in it.
type HullSocket struct {
	Key           string
	ComponentName string
	ComponentData *ComponentData
}

// WeaponGroup is a named group of sockets fired together.
type WeaponGroup struct {
	Name       string   `tree:",attr"`
	MemberKeys []string `tree:",item=string"`
}

// Ship is one ship of a fleet.
type Ship struct {
	SaveID       *Key `tree:",nillable"`
	Key          Key
	Name         string
	Cost         int
	Callsign     *string
	Number       int
	SymbolOption int
	HullType     string
	HullConfig   *HullConfig
	SocketMap    []HullSocket
	WeaponGroups []WeaponGroup
}

// Fleet is the root record of a fleet file.
type Fleet struct {
	Name        string
	Version     int
	TotalPoints int
	FactionKey  string
	Description *string
	Ships       []Ship
}

// ElementName implements the root naming of fleet files.
func (*Fleet) ElementName() string { return "Fleet" }

// Load reads a fleet file from r.
func Load(r io.Reader, opts ...fleetxml.Option) (*Fleet, error) {
	var f Fleet
	if err := fleetxml.NewDecoder(r, opts...).Decode(&f); err != nil {
		return nil, newError(err)
	}
	return &f, nil
}

// Save writes f to w as a fleet file.
func (f *Fleet) Save(w io.Writer, opts ...fleetxml.Option) error {
	if err := fleetxml.NewEncoder(w, opts...).Encode(f); err != nil {
		return &Error{Kind: KindWrite, Err: err}
	}
	return nil
}

// Points returns the summed cost of all ships.
func (f *Fleet) Points() int {
	var n int
	for i := range f.Ships {
		n += f.Ships[i].Cost
	}
	return n
}
