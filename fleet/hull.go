package fleet

import (
	"github.com/KimNorgaard/go-fleetxml/tree"
	"github.com/KimNorgaard/go-fleetxml/variant"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float32 `tree:"r"`
	G float32 `tree:"g"`
	B float32 `tree:"b"`
	A float32 `tree:"a"`
}

// Vector3 is a point or offset in model space.
type Vector3 struct {
	X float32 `tree:"x"`
	Y float32 `tree:"y"`
	Z float32 `tree:"z"`
}

// SegmentConfiguration selects one hull segment and its dressing.
type SegmentConfiguration struct {
	Key      string
	Dressing []int `tree:",item=int"`
}

// SecondaryStructureConfig places a secondary structure on a segment.
type SecondaryStructureConfig struct {
	Key       string
	Segment   int
	SnapPoint int
}

// HullConfiguration is the saved shape of a hull. RandomHullConfiguration
// is the only concrete type.
type HullConfiguration interface {
	variant.Variant
	hullConfiguration()
}

// RandomHullConfiguration is a hull assembled from randomly chosen
// segments.
type RandomHullConfiguration struct {
	PrimaryStructure   []SegmentConfiguration
	SecondaryStructure []SecondaryStructureConfig
	HullTint           Color
	TextureVariation   Vector3
}

func (*RandomHullConfiguration) VariantTag() string { return "RandomHullConfiguration" }
func (*RandomHullConfiguration) hullConfiguration() {}

// HullConfigurations is the closed family of hull configurations.
var HullConfigurations = variant.New[HullConfiguration]("HullConfiguration",
	variant.Case[HullConfiguration]("RandomHullConfiguration", func() HullConfiguration { return &RandomHullConfiguration{} }),
)

// HullConfig holds the configuration of a ship's hull.
type HullConfig struct {
	Configuration HullConfiguration
}

// UnmarshalTree implements fleetxml.Unmarshaler.
func (c *HullConfig) UnmarshalTree(el *tree.Element) error {
	hc, err := HullConfigurations.Decode(el)
	if err != nil {
		return err
	}
	c.Configuration = hc
	return nil
}

// MarshalTree implements fleetxml.Marshaler.
func (c HullConfig) MarshalTree(name string) (*tree.Element, error) {
	return HullConfigurations.Encode(name, c.Configuration)
}
