package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsBrokenStates(t *testing.T) {
	t.Parallel()

	lib := []Image{
		{ID: "i1", URL: "https://x.test/a-1_s.jpg", OrderID: 0},
		{ID: "i2", URL: "https://x.test/b-1_s.jpg", OrderID: 1},
	}
	tests := []struct {
		name  string
		state State
	}{
		{"frame order gap", State{Frames: []Frame{{ID: "f", OrderID: 1}}}},
		{"duplicate frame", State{Frames: []Frame{{ID: "f", OrderID: 0}, {ID: "f", OrderID: 1}}}},
		{"library order gap", State{Library: []Image{{ID: "i1", URL: "https://x.test/a.jpg", OrderID: 3}}}},
		{"shared base identity", State{Library: []Image{
			{ID: "i1", URL: "https://x.test/a-1_s.jpg", OrderID: 0},
			{ID: "i2", URL: "https://x.test/a-2_m.jpg", OrderID: 1},
		}}},
		{"image in two frames", State{Library: lib, Frames: []Frame{
			{ID: "f0", OrderID: 0, Images: []Image{{ID: "i1", OrderID: 0}}},
			{ID: "f1", OrderID: 1, Images: []Image{{ID: "i1", OrderID: 0}}},
		}}},
		{"placement order gap", State{Library: lib, Frames: []Frame{
			{ID: "f0", OrderID: 0, Images: []Image{{ID: "i1", OrderID: 0}, {ID: "i2", OrderID: 5}}},
		}}},
		{"placement without library image", State{Library: lib, Frames: []Frame{
			{ID: "f0", OrderID: 0, Images: []Image{{ID: "ghost", OrderID: 0}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.state.Validate(), ErrInvalidState)
		})
	}

	require.NoError(t, Empty().Validate())
	require.NoError(t, State{}.Validate())
}
