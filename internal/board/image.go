package board

import (
	"errors"
	"maps"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoURLs is returned by Ingest when the text holds no absolute URLs.
var ErrNoURLs = errors.New("no URLs found")

// Image is a library entry or, inside a frame, a placement copy of one.
// OrderID is local to the container the image currently sits in.
type Image struct {
	ID      string            `json:"id"`
	URL     string            `json:"url"`
	OrderID int               `json:"orderId"`
	Sizes   map[string]string `json:"sizes,omitempty"`
}

// IngestResult reports what an ingest changed.
type IngestResult struct {
	Added  []Image
	Merged int
}

// sizeVariantPattern matches ".../<base>-<size>_<variant>.<ext>". It runs
// over the whole URL, host included, so "http://a-1_b.com/x.jpg" groups
// under base "a"; stored boards rely on that keying.
var sizeVariantPattern = regexp.MustCompile(`/([^/]+)-(\d+)_([^/.]+)\.`)

// ParseSizeVariant extracts the base id and numeric size label from a URL
// shaped like ".../abc-800_full.jpg".
func ParseSizeVariant(rawURL string) (baseID, size string, ok bool) {
	m := sizeVariantPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// BaseIdentity is the grouping key for size variants of one logical image.
// URLs without a size suffix are their own identity.
func BaseIdentity(rawURL string) string {
	if base, _, ok := ParseSizeVariant(rawURL); ok {
		return base
	}
	return rawURL
}

// ExtractURLs splits free-form text on whitespace and commas and keeps the
// tokens that parse as absolute URLs with a host.
func ExtractURLs(raw string) []string {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var out []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		u, err := url.Parse(tok)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

type urlGroup struct {
	base    string
	first   string
	sizes   map[string]string
	primary string
	minSize int
	sized   bool
}

// groupByBase groups URLs by base identity in first-seen order. Within a
// group the primary URL is the smallest size, first one wins on ties.
func groupByBase(urls []string) []*urlGroup {
	var groups []*urlGroup
	index := make(map[string]*urlGroup)
	for _, u := range urls {
		base, size, ok := ParseSizeVariant(u)
		if !ok {
			base = u
		}
		g, seen := index[base]
		if !seen {
			g = &urlGroup{base: base, first: u}
			index[base] = g
			groups = append(groups, g)
		}
		if !ok {
			if g.primary == "" {
				g.primary = u
			}
			continue
		}
		if g.sizes == nil {
			g.sizes = make(map[string]string)
		}
		g.sizes[size] = u
		n, err := strconv.Atoi(size)
		if err != nil {
			// too many digits for int; keep it but never prefer it
			continue
		}
		if !g.sized || n < g.minSize {
			g.minSize = n
			g.primary = u
			g.sized = true
		}
	}
	for _, g := range groups {
		if g.primary == "" {
			g.primary = g.first
		}
	}
	return groups
}

// Ingest adds the URLs found in raw to the library. URLs sharing a base
// identity with an existing image extend that image's size map instead of
// creating a new entry. newID supplies ids for created images.
func (s State) Ingest(raw string, newID func() string) (State, IngestResult, error) {
	urls := ExtractURLs(raw)
	if len(urls) == 0 {
		return s, IngestResult{}, ErrNoURLs
	}

	library := make([]Image, len(s.Library), len(s.Library)+len(urls))
	copy(library, s.Library)
	existing := make(map[string]int, len(library))
	for i, img := range library {
		existing[BaseIdentity(img.URL)] = i
	}

	var res IngestResult
	for _, g := range groupByBase(urls) {
		if i, ok := existing[g.base]; ok {
			merged := make(map[string]string, len(library[i].Sizes)+len(g.sizes))
			maps.Copy(merged, library[i].Sizes)
			maps.Copy(merged, g.sizes)
			if len(merged) == 0 {
				merged = nil
			}
			library[i].Sizes = merged
			res.Merged++
			continue
		}
		img := Image{
			ID:      newID(),
			URL:     g.primary,
			OrderID: len(library),
			Sizes:   g.sizes,
		}
		existing[g.base] = len(library)
		library = append(library, img)
		res.Added = append(res.Added, img)
	}

	s.Library = library
	return s, res, nil
}

// RemoveImage deletes an image from the library and purges every placement
// of it. Unknown ids leave the state unchanged.
func (s State) RemoveImage(imageID string) State {
	idx := s.libraryIndex(imageID)
	if idx < 0 {
		return s
	}
	library := make([]Image, 0, len(s.Library)-1)
	library = append(library, s.Library[:idx]...)
	library = append(library, s.Library[idx+1:]...)
	renumberImages(library)
	s.Library = library

	if owner := s.OwnerFrame(imageID); owner != "" {
		s = s.RemoveImageFromFrame(owner, imageID)
	}
	return s
}

// FindImage looks an image up in the library.
func (s State) FindImage(imageID string) (Image, bool) {
	if i := s.libraryIndex(imageID); i >= 0 {
		return s.Library[i], true
	}
	return Image{}, false
}

// ImageByURL finds the library image whose primary URL is url.
func (s State) ImageByURL(rawURL string) (Image, bool) {
	for _, img := range s.Library {
		if img.URL == rawURL {
			return img, true
		}
	}
	return Image{}, false
}

// OwnerFrame returns the id of the frame holding imageID, or "".
func (s State) OwnerFrame(imageID string) string {
	for _, f := range s.Frames {
		if f.indexOf(imageID) >= 0 {
			return f.ID
		}
	}
	return ""
}

// UsedIDs is the set of library ids placed in some frame.
func (s State) UsedIDs() map[string]struct{} {
	used := make(map[string]struct{})
	for _, f := range s.Frames {
		for _, img := range f.Images {
			used[img.ID] = struct{}{}
		}
	}
	return used
}

// Partition splits the library into placed and unplaced images, both in
// library order.
func (s State) Partition() (used, unused []Image) {
	ids := s.UsedIDs()
	for _, img := range s.Library {
		if _, ok := ids[img.ID]; ok {
			used = append(used, img)
		} else {
			unused = append(unused, img)
		}
	}
	return used, unused
}

func (s State) libraryIndex(imageID string) int {
	for i := range s.Library {
		if s.Library[i].ID == imageID {
			return i
		}
	}
	return -1
}
