package fleet

import (
	"github.com/KimNorgaard/go-fleetxml/tree"
	"github.com/KimNorgaard/go-fleetxml/variant"
)

// MagSaveData is the stored load of one magazine.
type MagSaveData struct {
	MagazineKey string
	MunitionKey string
	Quantity    int
}

// ComponentPayload is the saved state of a component. The concrete types
// are BulkMagazineData, CellLauncherData and ResizableCellLauncherData.
type ComponentPayload interface {
	variant.Variant
	componentPayload()
}

// BulkMagazineData is the state of a bulk magazine.
type BulkMagazineData struct {
	Load []MagSaveData
}

// CellLauncherData is the state of a fixed-size cell launcher.
type CellLauncherData struct {
	MissileLoad []MagSaveData
}

// ResizableCellLauncherData is the state of a cell launcher whose cell
// count is configurable.
type ResizableCellLauncherData struct {
	MissileLoad []MagSaveData
	Configured  bool
}

func (*BulkMagazineData) VariantTag() string          { return "BulkMagazineData" }
func (*CellLauncherData) VariantTag() string          { return "CellLauncherData" }
func (*ResizableCellLauncherData) VariantTag() string { return "ResizableCellLauncherData" }

func (*BulkMagazineData) componentPayload()          {}
func (*CellLauncherData) componentPayload()          {}
func (*ResizableCellLauncherData) componentPayload() {}

// ComponentPayloads is the closed family of component payloads.
var ComponentPayloads = variant.New[ComponentPayload]("ComponentData",
	variant.Case[ComponentPayload]("BulkMagazineData", func() ComponentPayload { return &BulkMagazineData{} }),
	variant.Case[ComponentPayload]("CellLauncherData", func() ComponentPayload { return &CellLauncherData{} }),
	variant.Case[ComponentPayload]("ResizableCellLauncherData", func() ComponentPayload { return &ResizableCellLauncherData{} }),
)

// ComponentData holds the payload of a socketed component.
type ComponentData struct {
	Payload ComponentPayload
}

// UnmarshalTree implements fleetxml.Unmarshaler.
func (d *ComponentData) UnmarshalTree(el *tree.Element) error {
	p, err := ComponentPayloads.Decode(el)
	if err != nil {
		return err
	}
	d.Payload = p
	return nil
}

// MarshalTree implements fleetxml.Marshaler.
func (d ComponentData) MarshalTree(name string) (*tree.Element, error) {
	return ComponentPayloads.Encode(name, d.Payload)
}
