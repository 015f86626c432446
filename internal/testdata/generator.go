package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/framebuilder/internal/board"
)

var sampleNamespace = uuid.MustParse("6f1c2a4e-9b0d-4d53-8f0e-2c7a1e5b9d31")

var sampleCaptions = []string{
	"Meet the new collection",
	"Made from recycled yarn",
	"Three colours, one fit",
	"Tap to shop the look",
	"Free returns for 30 days",
}

var sampleSizes = []string{"150_thumb", "600_medium", "1200_large"}

// Store is where Seed writes the sample board.
type Store interface {
	Save(ctx context.Context, s board.State) error
}

// SampleBoard builds a board with frames, a library of size-variant URLs and
// some placements. The same seed always yields the same board, ids included.
func SampleBoard(seed int64) board.State {
	r := rand.New(rand.NewSource(seed))
	n := 0
	newID := func() string {
		n++
		return uuid.NewSHA1(sampleNamespace, []byte(fmt.Sprintf("%d/%d", seed, n))).String()
	}

	var urls []string
	for i := 0; i < 8; i++ {
		photo := fmt.Sprintf("https://cdn.example.com/p/photo%02d", i)
		for _, size := range sampleSizes[:1+r.Intn(len(sampleSizes))] {
			parts := strings.SplitN(size, "_", 2)
			urls = append(urls, fmt.Sprintf("%s-%s_%s.jpg", photo, parts[0], parts[1]))
		}
	}
	urls = append(urls, "https://cdn.example.com/p/cover.png")

	s, _, err := board.Empty().Ingest(strings.Join(urls, "\n"), newID)
	if err != nil {
		panic(err)
	}

	frames := 3 + r.Intn(len(sampleCaptions)-2)
	for i := 0; i < frames; i++ {
		var f board.Frame
		s, f = s.AddFrame(newID())
		s = s.SetCaption(f.ID, sampleCaptions[i])
	}

	for _, img := range s.Library {
		if r.Intn(3) == 0 {
			continue
		}
		target := s.Frames[r.Intn(len(s.Frames))]
		s, _ = s.Move(
			board.DragItem{Kind: board.ItemLibraryImage, ID: img.ID},
			board.DropTarget{Kind: board.DropFrameZone, ID: target.ID},
		)
	}
	return s
}

// Seed saves a sample board to store.
func Seed(ctx context.Context, store Store, seed int64) (board.State, error) {
	s := SampleBoard(seed)
	if err := store.Save(ctx, s); err != nil {
		return board.State{}, err
	}
	return s, nil
}
