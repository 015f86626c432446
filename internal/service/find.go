package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/framebuilder/internal/board"
)

var (
	ErrFrameNotFound = errors.New("frame not found")
	ErrImageNotFound = errors.New("image not found")
)

// FindFrame resolves a user reference to a frame. It accepts, in order: an
// exact id, a 1-based position, a unique id prefix, an exact caption, and
// finally the caption with the smallest edit distance when that distance is
// within a third of the query length. A number in range is always a
// position, even when some id starts with those digits.
func FindFrame(s board.State, ref string) (board.Frame, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return board.Frame{}, ErrFrameNotFound
	}
	if f, ok := s.Frame(ref); ok {
		return f, nil
	}
	n, numErr := strconv.Atoi(ref)
	if numErr == nil && n >= 1 && n <= len(s.Frames) {
		return s.Frames[n-1], nil
	}

	var prefixed []board.Frame
	for _, f := range s.Frames {
		if strings.HasPrefix(f.ID, ref) {
			prefixed = append(prefixed, f)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}

	if numErr == nil {
		return board.Frame{}, ErrFrameNotFound
	}

	q := strings.ToLower(ref)
	best, bestDist := -1, 0
	for i, f := range s.Frames {
		c := strings.ToLower(strings.TrimSpace(f.Caption))
		if c == "" {
			continue
		}
		if c == q {
			return f, nil
		}
		d := levenshtein.ComputeDistance(q, c)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 && bestDist*3 <= len([]rune(q)) {
		return s.Frames[best], nil
	}
	return board.Frame{}, ErrFrameNotFound
}

// FindImage resolves a user reference to a library image: an exact id, a
// primary or size-variant URL, a 1-based library position, or a unique id
// prefix.
func FindImage(s board.State, ref string) (board.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return board.Image{}, ErrImageNotFound
	}
	if img, ok := s.FindImage(ref); ok {
		return img, nil
	}
	if img, ok := s.ImageByURL(ref); ok {
		return img, nil
	}
	for _, img := range s.Library {
		for _, u := range img.Sizes {
			if u == ref {
				return img, nil
			}
		}
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.Library) {
		return s.Library[n-1], nil
	}

	var prefixed []board.Image
	for _, img := range s.Library {
		if strings.HasPrefix(img.ID, ref) {
			prefixed = append(prefixed, img)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	return board.Image{}, ErrImageNotFound
}
