package board

import (
	"cmp"
	"maps"
	"slices"
)

// Document is the caption and image sequence handed off on export.
type Document []ExportFrame

// ExportFrame is one frame of an exported document.
type ExportFrame struct {
	Caption string        `json:"caption" yaml:"caption"`
	Images  []ExportImage `json:"images" yaml:"images"`
}

// ExportImage carries the placed URL and, when known, its size variants.
type ExportImage struct {
	URL   string            `json:"url" yaml:"url"`
	Sizes map[string]string `json:"sizes,omitempty" yaml:"sizes,omitempty"`
}

// Export projects the frames, in order, joined with the library's size maps.
// Images are matched to the library by URL.
func Export(s State) Document {
	sizesByURL := make(map[string]map[string]string, len(s.Library))
	for _, img := range s.Library {
		if len(img.Sizes) > 0 {
			if _, seen := sizesByURL[img.URL]; !seen {
				sizesByURL[img.URL] = img.Sizes
			}
		}
	}

	frames := slices.Clone(s.Frames)
	slices.SortStableFunc(frames, func(a, b Frame) int { return cmp.Compare(a.OrderID, b.OrderID) })

	doc := make(Document, 0, len(frames))
	for _, f := range frames {
		images := slices.Clone(f.Images)
		slices.SortStableFunc(images, func(a, b Image) int { return cmp.Compare(a.OrderID, b.OrderID) })

		out := ExportFrame{Caption: f.Caption, Images: make([]ExportImage, 0, len(images))}
		for _, img := range images {
			ei := ExportImage{URL: img.URL}
			if sizes, ok := sizesByURL[img.URL]; ok {
				ei.Sizes = maps.Clone(sizes)
			}
			out.Images = append(out.Images, ei)
		}
		doc = append(doc, out)
	}
	return doc
}
