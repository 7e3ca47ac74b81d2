package fleet_test

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/KimNorgaard/go-fleetxml"
	fxerrors "github.com/KimNorgaard/go-fleetxml/errors"
	"github.com/KimNorgaard/go-fleetxml/extract"
	"github.com/KimNorgaard/go-fleetxml/fleet"
	"github.com/KimNorgaard/go-fleetxml/internal/testutil"
	"github.com/KimNorgaard/go-fleetxml/tree"
	"github.com/KimNorgaard/go-fleetxml/variant"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func ptr[T any](v T) *T { return &v }

func picketLine() *fleet.Fleet {
	return &fleet.Fleet{
		Name:        "Picket Line",
		Version:     3,
		TotalPoints: 1985,
		FactionKey:  "Stock/Alliance",
		Description: ptr("Two escorts & a carrier"),
		Ships: []fleet.Ship{
			{
				Key:          fleet.MustParseKey("bxwrDo0qTE-bHjpdfJ4PEg"),
				Name:         "Sprinter",
				Cost:         985,
				Number:       1,
				SymbolOption: 0,
				HullType:     "Stock/Sprinter Corvette",
				HullConfig: &fleet.HullConfig{Configuration: &fleet.RandomHullConfiguration{
					PrimaryStructure: []fleet.SegmentConfiguration{
						{Key: "a1", Dressing: []int{0, 2}},
						{Key: "b7"},
					},
					SecondaryStructure: []fleet.SecondaryStructureConfig{
						{Key: "s1", Segment: 1, SnapPoint: 0},
					},
					HullTint:         fleet.Color{R: 0.5, G: 0.25, B: 1, A: 1},
					TextureVariation: fleet.Vector3{X: 0.125, Y: -3, Z: 0},
				}},
				SocketMap: []fleet.HullSocket{
					{
						Key:           "sock-a",
						ComponentName: "Stock/Bulk Magazine",
						ComponentData: &fleet.ComponentData{Payload: &fleet.BulkMagazineData{Load: []fleet.MagSaveData{
							{MagazineKey: "abc", MunitionKey: "Stock/20mm Slug", Quantity: 48},
							{MagazineKey: "def", MunitionKey: "Stock/100mm HE Shell", Quantity: 12},
						}}},
					},
					{
						Key:           "sock-b",
						ComponentName: "Stock/CLS-3",
						ComponentData: &fleet.ComponentData{Payload: &fleet.ResizableCellLauncherData{
							MissileLoad: []fleet.MagSaveData{
								{MagazineKey: "m1", MunitionKey: "Stock/S1 Rocket", Quantity: 6},
							},
							Configured: true,
						}},
					},
					{Key: "sock-c", ComponentName: "Stock/Plate"},
				},
				WeaponGroups: []fleet.WeaponGroup{
					{Name: "Group 1", MemberKeys: []string{"sock-a", "sock-b"}},
				},
			},
			{
				SaveID:       ptr(fleet.MustParseKey("ChssPU5fYHGCk6S1xtfo-Q")),
				Key:          fleet.MustParseKey("_ty6mHZUMhABI0VniavN7w"),
				Name:         "Keystone",
				Cost:         1000,
				Callsign:     ptr("KS-2"),
				Number:       2,
				SymbolOption: 3,
				HullType:     "Stock/Keystone Destroyer",
				SocketMap: []fleet.HullSocket{
					{
						Key:           "sock-x",
						ComponentName: "Stock/VLS",
						ComponentData: &fleet.ComponentData{Payload: &fleet.CellLauncherData{}},
					},
				},
			},
		},
	}
}

func TestLoad(t *testing.T) {
	data, err := testutil.ReadTestData("picket.fleet")
	require.NoError(t, err)

	f, err := fleet.Load(bytes.NewReader(data))
	require.NoError(t, err)
	if diff := cmp.Diff(picketLine(), f); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, f.TotalPoints, f.Points())
}

func TestSave(t *testing.T) {
	want, err := testutil.ReadTestData("picket.fleet")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, picketLine().Save(&buf))
	require.Equal(t, string(want), buf.String())
}

func TestRoundTrip(t *testing.T) {
	for _, opts := range [][]fleetxml.Option{
		nil,
		{fleetxml.Indent(0)},
		{fleetxml.IndentChar('\t'), fleetxml.Indent(1), fleetxml.Standalone(true)},
	} {
		var buf bytes.Buffer
		require.NoError(t, picketLine().Save(&buf, opts...))

		f, err := fleet.Load(&buf)
		require.NoError(t, err)
		if diff := cmp.Diff(picketLine(), f); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGolden(t *testing.T) {
	names, err := testutil.Fixtures()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := testutil.ReadTestData(name)
			require.NoError(t, err)

			f, err := fleet.Load(bytes.NewReader(data))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, f.Save(&buf))
			actual := buf.Bytes()

			goldenFile := filepath.Join("testdata", strings.Replace(name, ".fleet", ".golden", 1))
			if *update {
				require.NoError(t, os.WriteFile(goldenFile, actual, 0o644))
			}
			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")
			require.Equal(t, string(expected), string(actual))
		})
	}
}

func TestLoad_Handmade(t *testing.T) {
	data, err := testutil.ReadTestData("handmade.fleet")
	require.NoError(t, err)

	f, err := fleet.Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "Picket Line", f.Name)
	require.Equal(t, 1985, f.TotalPoints)
	require.Nil(t, f.Description)
	require.Empty(t, f.Ships)
}

func TestMagSaveData(t *testing.T) {
	el := tree.NewElement("MagSaveData",
		tree.NewText("MagazineKey", "abc"),
		tree.NewText("MunitionKey", "Stock/20mm Slug"),
		tree.NewText("Quantity", "48"),
	)

	var m fleet.MagSaveData
	require.NoError(t, fleetxml.Decode(el, &m))
	require.Equal(t, fleet.MagSaveData{MagazineKey: "abc", MunitionKey: "Stock/20mm Slug", Quantity: 48}, m)

	out, err := fleetxml.Encode("MagSaveData", m)
	require.NoError(t, err)
	require.Equal(t, el, out)
}

func load(data string) tree.Nodes {
	nodes, err := fleetxml.Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return nodes
}

func TestComponentData(t *testing.T) {
	const load1 = `<Load><MagSaveData><MagazineKey>abc</MagazineKey>` +
		`<MunitionKey>Stock/20mm Slug</MunitionKey><Quantity>48</Quantity></MagSaveData></Load>`
	want := []fleet.MagSaveData{{MagazineKey: "abc", MunitionKey: "Stock/20mm Slug", Quantity: 48}}

	tests := []struct {
		name    string
		input   string
		want    fleet.ComponentPayload
		missing string
	}{
		{
			name:  "bulk magazine",
			input: `<ComponentData xsi:type="BulkMagazineData">` + load1 + `</ComponentData>`,
			want:  &fleet.BulkMagazineData{Load: want},
		},
		{
			name:  "cell launcher",
			input: `<ComponentData xsi:type="CellLauncherData">` + strings.ReplaceAll(load1, "Load>", "MissileLoad>") + `</ComponentData>`,
			want:  &fleet.CellLauncherData{MissileLoad: want},
		},
		{
			name:    "cell launcher tag with bulk magazine children",
			input:   `<ComponentData xsi:type="CellLauncherData">` + load1 + `</ComponentData>`,
			missing: "MissileLoad",
		},
		{
			name:    "bulk magazine tag with cell launcher children",
			input:   `<ComponentData xsi:type="BulkMagazineData">` + strings.ReplaceAll(load1, "Load>", "MissileLoad>") + `</ComponentData>`,
			missing: "Load",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d fleet.ComponentData
			err := d.UnmarshalTree(load(tt.input)[0].(*tree.Element))
			if tt.missing != "" {
				var missing *extract.MissingError
				require.ErrorAs(t, err, &missing)
				require.Equal(t, tt.missing, missing.Name)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d.Payload)

			el, err := d.MarshalTree("ComponentData")
			require.NoError(t, err)
			var again fleet.ComponentData
			require.NoError(t, again.UnmarshalTree(el))
			require.Equal(t, d, again)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	valid, err := testutil.ReadTestData("picket.fleet")
	require.NoError(t, err)
	doc := string(valid)

	tests := []struct {
		name  string
		input string
		kind  fleet.Kind
		check func(t *testing.T, err error)
	}{
		{
			name:  "truncated",
			input: doc[:len(doc)/2],
			kind:  fleet.KindParse,
			check: func(t *testing.T, err error) {
				var pe *fxerrors.ParseError
				require.ErrorAs(t, err, &pe)
			},
		},
		{
			name:  "wrong root",
			input: `<Ship><Name>x</Name></Ship>`,
			kind:  fleet.KindStructure,
			check: func(t *testing.T, err error) {
				var ne *extract.NameError
				require.ErrorAs(t, err, &ne)
				require.Equal(t, "Fleet", ne.Want)
			},
		},
		{
			name:  "duplicate name",
			input: strings.Replace(doc, "<Name>Picket Line</Name>", "<Name>Picket Line</Name><Name>Again</Name>", 1),
			kind:  fleet.KindStructure,
			check: func(t *testing.T, err error) {
				var dup *extract.DuplicateError
				require.ErrorAs(t, err, &dup)
				require.Equal(t, "Name", dup.Element.Name)
			},
		},
		{
			name:  "missing faction",
			input: strings.Replace(doc, "<FactionKey>Stock/Alliance</FactionKey>", "", 1),
			kind:  fleet.KindStructure,
			check: func(t *testing.T, err error) {
				var missing *extract.MissingError
				require.ErrorAs(t, err, &missing)
				require.Equal(t, "FactionKey", missing.Name)
				require.Equal(t, "Fleet", missing.Parent)
			},
		},
		{
			name:  "unknown component",
			input: strings.Replace(doc, `xsi:type="BulkMagazineData"`, `xsi:type="DiscreteMagazineData"`, 1),
			kind:  fleet.KindSemantic,
			check: func(t *testing.T, err error) {
				var unknown *variant.UnknownTagError
				require.ErrorAs(t, err, &unknown)
				require.Equal(t, "DiscreteMagazineData", unknown.Tag)
				require.ErrorContains(t, err, "DiscreteMagazineData")
			},
		},
		{
			name:  "bad quantity",
			input: strings.Replace(doc, "<Quantity>48</Quantity>", "<Quantity>many</Quantity>", 1),
			kind:  fleet.KindSemantic,
			check: func(t *testing.T, err error) {
				var se *fleetxml.ScalarError
				require.ErrorAs(t, err, &se)
				require.Equal(t, "many", se.Text)
			},
		},
		{
			name:  "bad key",
			input: strings.Replace(doc, "bxwrDo0qTE-bHjpdfJ4PEg", "not-a-key", 1),
			kind:  fleet.KindSemantic,
			check: func(t *testing.T, err error) {
				var se *fleetxml.ScalarError
				require.ErrorAs(t, err, &se)
				require.Equal(t, "not-a-key", se.Text)
			},
		},
		{
			name:  "misnamed sequence item",
			input: strings.Replace(doc, "<string>sock-a</string>", "<str>sock-a</str>", 1),
			kind:  fleet.KindStructure,
			check: func(t *testing.T, err error) {
				var ne *extract.NameError
				require.ErrorAs(t, err, &ne)
				require.Equal(t, "string", ne.Want)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := fleet.Load(strings.NewReader(tt.input))
			require.Nil(t, f)

			var fe *fleet.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.kind, fe.Kind, "error: %v", err)
			tt.check(t, err)
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	valid, err := testutil.ReadTestData("picket.fleet")
	require.NoError(t, err)
	errReset := errors.New("connection reset")
	r := io.MultiReader(bytes.NewReader(valid[:len(valid)/2]), iotest.ErrReader(errReset))

	f, err := fleet.Load(r)
	require.Nil(t, f)
	require.ErrorIs(t, err, errReset)

	var fe *fleet.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fleet.KindParse, fe.Kind)
}

func TestSave_Error(t *testing.T) {
	f := picketLine()
	f.Ships[0].SocketMap[0].ComponentData = &fleet.ComponentData{}

	err := f.Save(&bytes.Buffer{})
	var fe *fleet.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fleet.KindWrite, fe.Kind)
}
