package export

import (
	"strings"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// ResolvedItem is one checklist row with everything already derived; the
// renderers below are pure functions of this data.
type ResolvedItem struct {
	Index    int
	ID       int
	Prompt   string
	Expected string
	Approval domain.ApprovalLabel
	Evidence string
	Status   domain.ItemStatus
}

// Snapshot is the complete, already-resolved view of one certification that
// the export renderers consume. No partial or streaming delivery: a
// snapshot is built once, before rendering starts.
type Snapshot struct {
	Title      string
	ClientName string
	NIT        domain.NIT
	SchemeName string
	Date       time.Time
	Items      []ResolvedItem
	Counts     progress.CountSummary
}

// BuildSnapshot resolves the full item list against the progress state.
// Evidence markup is flattened to plain text for rasterization.
func BuildSnapshot(record client.Record, items []catalog.Item, state *progress.State, now time.Time) Snapshot {
	snap := Snapshot{
		Title:      "Checklist de Certificación API",
		ClientName: record.Name,
		NIT:        record.NIT,
		SchemeName: catalog.DisplayName(record.SchemeKey),
		Date:       now,
		Items:      make([]ResolvedItem, 0, len(items)),
		Counts:     state.Counts(items),
	}
	for i, item := range items {
		snap.Items = append(snap.Items, ResolvedItem{
			Index:    i,
			ID:       item.ID,
			Prompt:   item.Prompt,
			Expected: item.Expected,
			Approval: state.Approval(item.ID),
			Evidence: stripTags(state.Evidence(item.ID)),
			Status:   state.Status(item.ID),
		})
	}
	return snap
}

// stripTags flattens sanitized evidence markup to text: tags drop, block
// boundaries become spaces. Good enough for a raster rendition; the stored
// markup itself is untouched.
func stripTags(markup string) string {
	if !strings.ContainsRune(markup, '<') {
		return markup
	}
	var b strings.Builder
	b.Grow(len(markup))
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
