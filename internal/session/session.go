package session

import (
	"context"
	"sync"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/pagination"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/sidebar"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Session is the explicit editing context for one loaded client: the
// record, its resolved item list, the in-memory progress state (single
// source of truth for the session), the pagination cursor, and the owned
// debounce flusher. It replaces the ambient globals of the old portal.
//
// All methods serialize on the session mutex; edits apply in arrival order.
type Session struct {
	mu sync.Mutex

	record  client.Record
	items   []catalog.Item
	state   *progress.State
	cursor  pagination.Cursor
	flusher *progress.Flusher

	sidebarMode sidebar.Mode
}

// Record returns the client record the session was loaded with.
func (s *Session) Record() client.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// Items returns the active scheme's ordered item list.
func (s *Session) Items() []catalog.Item {
	return s.items
}

func (s *Session) itemKnown(itemID int) bool {
	for _, item := range s.items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// SetApproval records a verdict and arms the debounce timer.
//
// Errors: CodeNotFound when the item is not in the active scheme,
// CodeInvalidInput for an unknown label.
func (s *Session) SetApproval(itemID int, label domain.ApprovalLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.itemKnown(itemID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in active scheme")
	}
	if err := s.state.SetApproval(itemID, label); err != nil {
		return err
	}
	s.flusher.Touch(s.state.Clone())
	return nil
}

// SetEvidence stores sanitized evidence and arms the debounce timer.
func (s *Session) SetEvidence(itemID int, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.itemKnown(itemID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in active scheme")
	}
	s.state.SetEvidence(itemID, raw)
	s.flusher.Touch(s.state.Clone())
	return nil
}

// ItemView is one checklist row with its current values.
type ItemView struct {
	ID       int                  `json:"id"`
	Prompt   string               `json:"texto"`
	Expected string               `json:"esperado"`
	Approval domain.ApprovalLabel `json:"aprobado"`
	Evidence string               `json:"evidencias"`
	Status   domain.ItemStatus    `json:"status"`
}

// PageView is the visible slice plus cursor position.
type PageView struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Items      []ItemView `json:"items"`
}

// Checklist projects the currently visible page.
func (s *Session) Checklist() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageViewLocked()
}

func (s *Session) pageViewLocked() PageView {
	start, end := pagination.Bounds(s.cursor.Page(), len(s.items))
	view := PageView{
		Page:       s.cursor.Page(),
		TotalPages: s.cursor.Total(),
		Items:      make([]ItemView, 0, end-start),
	}
	for _, item := range s.items[start:end] {
		view.Items = append(view.Items, ItemView{
			ID:       item.ID,
			Prompt:   item.Prompt,
			Expected: item.Expected,
			Approval: s.state.Approval(item.ID),
			Evidence: s.state.Evidence(item.ID),
			Status:   s.state.Status(item.ID),
		})
	}
	return view
}

// GoTo flushes the page being left, then moves to the clamped target page.
// The flush is synchronous and happens-before the cursor changes, so paging
// away never loses edits.
func (s *Session) GoTo(ctx context.Context, page int) (PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flusher.FlushNow(ctx, s.state.Clone()); err != nil {
		return PageView{}, err
	}
	s.cursor.GoTo(page)
	return s.pageViewLocked(), nil
}

// Next advances one page with the same save-on-leave ordering as GoTo.
// No-op at the last page.
func (s *Session) Next(ctx context.Context) (PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flusher.FlushNow(ctx, s.state.Clone()); err != nil {
		return PageView{}, err
	}
	s.cursor.Next()
	return s.pageViewLocked(), nil
}

// Prev moves back one page with the same save-on-leave ordering as GoTo.
// No-op at page 1.
func (s *Session) Prev(ctx context.Context) (PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flusher.FlushNow(ctx, s.state.Clone()); err != nil {
		return PageView{}, err
	}
	s.cursor.Prev()
	return s.pageViewLocked(), nil
}

// Save persists immediately (the explicit "guardar" action).
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flusher.FlushNow(ctx, s.state.Clone())
}

// ClearEvidence removes approval and evidence for every item in the active
// scheme and persists the cleared state at once.
func (s *Session) ClearEvidence(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	s.state.ClearAll(ids)
	return s.flusher.FlushNow(ctx, s.state.Clone())
}

// flushAndStop persists outstanding edits and cancels the debounce timer.
// The flush error (if any) wins; Stop runs regardless.
func (s *Session) flushAndStop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.flusher.FlushNow(ctx, s.state.Clone())
	s.flusher.Stop()
	return err
}

// Counts aggregates derived statuses across the whole checklist.
func (s *Session) Counts() progress.CountSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Counts(s.items)
}

// Sidebar projects the navigation summary. availableHeight <= 0 uses the
// default visible count.
func (s *Session) Sidebar(availableHeight, reservedHeight int) sidebar.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := sidebar.VisibleCount(availableHeight, reservedHeight)
	return sidebar.Project(s.items, s.state, s.cursor.Page(), s.sidebarMode, count)
}

// ToggleSidebar flips between the first-N and remaining views.
func (s *Session) ToggleSidebar() sidebar.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarMode = sidebar.Toggle(s.sidebarMode)
	return s.sidebarMode
}

// Snapshot hands the export layer a stable copy of everything it needs;
// the state is cloned so in-flight exports never observe later edits.
func (s *Session) Snapshot() (client.Record, []catalog.Item, *progress.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.items, s.state.Clone()
}
