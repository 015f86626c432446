package repository

import "time"

// Meta represents the singleton board_meta row.
type Meta struct {
	SidebarOpen bool
	UsedOpen    bool
	Revision    int64
	SavedAt     *time.Time
}
