package sidebar

import (
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/pagination"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// Visible-count bounds. The sidebar always shows at least MinVisible
// entries and never more than MaxVisible, whatever the measured space says.
const (
	MinVisible     = 3
	MaxVisible     = 15
	DefaultVisible = 6

	// Layout constants mirrored from the sidebar stylesheet: estimated
	// height of one entry and the space reserved for the toggle arrow.
	perItemHeight  = 65
	reservedHeight = 80
)

// Mode selects which slice of the checklist the sidebar shows. Exactly one
// mode is active at a time; toggling is the only transition.
type Mode string

const (
	// ModeFirst shows the first N items.
	ModeFirst Mode = "first"
	// ModeRemaining shows the items beyond the first N.
	ModeRemaining Mode = "remaining"
)

// Toggle flips between the two modes.
func Toggle(m Mode) Mode {
	if m == ModeRemaining {
		return ModeFirst
	}
	return ModeRemaining
}

// VisibleCount computes how many entries fit in availableHeight pixels
// after subtracting reservedHeight for the toggle arrow, clamped to
// [MinVisible, MaxVisible]. An absent measurement (availableHeight <= 0,
// headless or uninitialized layout) yields DefaultVisible; reservedHeight
// <= 0 falls back to the stylesheet constant.
func VisibleCount(availableHeight, reserved int) int {
	if availableHeight <= 0 {
		return DefaultVisible
	}
	if reserved <= 0 {
		reserved = reservedHeight
	}
	fit := (availableHeight - reserved) / perItemHeight
	if fit < MinVisible {
		return MinVisible
	}
	if fit > MaxVisible {
		return MaxVisible
	}
	return fit
}

// Entry is one projected sidebar row.
type Entry struct {
	Index      int               `json:"index"`
	ItemID     int               `json:"itemId"`
	Title      string            `json:"title"`
	Status     domain.ItemStatus `json:"status"`
	Page       int               `json:"page"`
	ActivePage bool              `json:"activePage"`
}

// View is the full sidebar projection.
type View struct {
	Mode    Mode    `json:"mode"`
	Entries []Entry `json:"entries"`
	// Hidden is how many items the inactive mode holds; the UI renders it
	// as the "Ver N puntos más" / "Ver primeros N puntos" toggle.
	Hidden int `json:"hidden"`
}

// Project derives the sidebar view. Pure: recomputed after every mutation,
// it reads state and never writes it.
func Project(items []catalog.Item, state *progress.State, currentPage int, mode Mode, visibleCount int) View {
	var slice []catalog.Item
	var offset int
	switch mode {
	case ModeRemaining:
		if visibleCount < len(items) {
			slice = items[visibleCount:]
			offset = visibleCount
		}
	default:
		mode = ModeFirst
		if visibleCount < len(items) {
			slice = items[:visibleCount]
		} else {
			slice = items
		}
	}

	view := View{Mode: mode, Entries: make([]Entry, 0, len(slice))}
	for i, item := range slice {
		index := offset + i
		page := pagination.PageOf(index)
		view.Entries = append(view.Entries, Entry{
			Index:      index,
			ItemID:     item.ID,
			Title:      item.Prompt,
			Status:     state.Status(item.ID),
			Page:       page,
			ActivePage: page == currentPage,
		})
	}
	if visibleCount < len(items) {
		if mode == ModeFirst {
			view.Hidden = len(items) - visibleCount
		} else {
			view.Hidden = visibleCount
		}
	}
	return view
}
