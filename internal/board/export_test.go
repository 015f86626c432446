package board

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExportSortsByOrderID(t *testing.T) {
	t.Parallel()

	s := State{
		Frames: []Frame{
			{ID: "b", OrderID: 1, Caption: "second", Images: []Image{
				{ID: "i3", URL: "https://x.test/3.jpg", OrderID: 1},
				{ID: "i2", URL: "https://x.test/2.jpg", OrderID: 0},
			}},
			{ID: "a", OrderID: 0, Caption: "first", Images: []Image{
				{ID: "i1", URL: "https://x.test/1.jpg", OrderID: 0},
			}},
		},
	}

	want := Document{
		{Caption: "first", Images: []ExportImage{{URL: "https://x.test/1.jpg"}}},
		{Caption: "second", Images: []ExportImage{{URL: "https://x.test/2.jpg"}, {URL: "https://x.test/3.jpg"}}},
	}
	if diff := cmp.Diff(want, Export(s)); diff != "" {
		t.Fatalf("Export mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "b", s.Frames[0].ID, "export must not reorder the input")
}

func TestExportAttachesSizesByURL(t *testing.T) {
	t.Parallel()

	s, _, err := Empty().Ingest("https://x.test/p/abc-100_thumb.jpg https://x.test/p/abc-800_full.jpg https://x.test/plain.jpg", seqIDs("img"))
	require.NoError(t, err)
	s, f := s.AddFrame("f0")
	s = s.SetCaption(f.ID, "hello")
	s, _ = s.Move(DragItem{Kind: ItemLibraryImage, ID: "img-2"}, DropTarget{Kind: DropFrameZone, ID: f.ID})
	s, _ = s.Move(DragItem{Kind: ItemLibraryImage, ID: "img-1"}, DropTarget{Kind: DropFrameZone, ID: f.ID})

	doc := Export(s)
	require.Len(t, doc, 1)
	require.Equal(t, "hello", doc[0].Caption)
	require.Equal(t, []ExportImage{
		{URL: "https://x.test/plain.jpg"},
		{URL: "https://x.test/p/abc-100_thumb.jpg", Sizes: map[string]string{
			"100": "https://x.test/p/abc-100_thumb.jpg",
			"800": "https://x.test/p/abc-800_full.jpg",
		}},
	}, doc[0].Images)

	doc[0].Images[1].Sizes["100"] = "mutated"
	require.Equal(t, "https://x.test/p/abc-100_thumb.jpg", s.Library[0].Sizes["100"])
}

func TestExportIsDeterministic(t *testing.T) {
	t.Parallel()

	s := fixture(t)
	a, err := json.Marshal(Export(s))
	require.NoError(t, err)
	b, err := json.Marshal(Export(s))
	require.NoError(t, err)
	require.JSONEq(t, string(a), string(b))
	require.Equal(t, string(a), string(b))
	require.Contains(t, string(a), `"images":[]`)
}
