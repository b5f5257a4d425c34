// ledger.go — The id-addressed region table with per-entry version stamps.
package region

import (
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	"github.com/S0HElL/TL-pipeline/pkg/typeset"
)

// entry pairs a region with its version stamp and cached plan. The plan is
// valid only while planVersion equals version; any relevant edit bumps
// version, which implicitly discards the cache.
type entry struct {
	region      Region
	version     uint64
	plan        typeset.Plan
	planErr     error
	planVersion uint64
	planned     bool
}

// Ledger is the process-lifetime record of regions for one document. All
// mutations are serialized; concurrent edits to the same id resolve as
// last-write-wins, edits to different ids are independent.
type Ledger struct {
	mu      sync.Mutex
	entries map[ID]*entry
	nextID  ID
	planner Planner
	logger  *slog.Logger
}

// NewLedger creates an empty ledger. The planner is consulted lazily the
// first time a region's plan is read after an invalidating edit.
func NewLedger(planner Planner, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		entries: make(map[ID]*entry),
		nextID:  1,
		planner: planner,
		logger:  logger,
	}
}

// Add appends a freshly detected region and returns its id. The edit box
// starts equal to the source box.
func (l *Ledger) Add(sourceBox image.Rectangle, sourceText string, o typeset.Orientation) ID {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.entries[id] = &entry{
		region: Region{
			ID:          id,
			SourceBox:   sourceBox,
			EditBox:     sourceBox,
			SourceText:  sourceText,
			Orientation: o,
			Style:       DefaultStyle(),
		},
		version: 1,
	}
	return id
}

// Restore re-inserts previously saved regions, keeping their ids, and
// advances the id counter past them. Used when loading a session bundle.
func (l *Ledger) Restore(regions []Region) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range regions {
		l.entries[r.ID] = &entry{region: r, version: 1}
		if r.ID >= l.nextID {
			l.nextID = r.ID + 1
		}
	}
}

// Reset clears all regions; used when a new detection pass starts. IDs keep
// counting up so stale ids from the previous pass can never alias.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[ID]*entry)
}

// Delete removes a region. Deleting an unknown id is a no-op.
func (l *Ledger) Delete(id ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

// Get returns a snapshot of one region.
func (l *Ledger) Get(id ID) (Region, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[id]
	if !ok {
		return Region{}, false
	}
	return e.region, true
}

// Snapshot returns copies of all regions in ascending id order.
func (l *Ledger) Snapshot() []Region {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Region, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.region)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EditBoxes returns all edit boxes in ascending id order, the consistent
// full-set snapshot the mask builder rebuilds from.
func (l *Ledger) EditBoxes() []image.Rectangle {
	regions := l.Snapshot()
	out := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		out[i] = r.EditBox
	}
	return out
}

// Len returns the number of live regions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Version returns the current version stamp of a region, 0 if unknown.
func (l *Ledger) Version(id ID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e.version
	}
	return 0
}

// SetEditBox moves or resizes a region's edit box. The box must keep a
// positive area.
func (l *Ledger) SetEditBox(id ID, box image.Rectangle) error {
	if box.Dx() <= 0 || box.Dy() <= 0 {
		return fmt.Errorf("region %d: edit box %v must have positive area", id, box)
	}
	return l.mutate(id, func(r *Region) bool {
		if r.EditBox == box {
			return false
		}
		r.EditBox = box
		return true
	})
}

// SetTranslatedText updates a region's translation. Unchanged text is a
// no-op so repeated collaborator deliveries stay idempotent.
func (l *Ledger) SetTranslatedText(id ID, text string) error {
	return l.mutate(id, func(r *Region) bool {
		if r.TranslatedText == text {
			return false
		}
		r.TranslatedText = text
		return true
	})
}

// SetOrientation switches a region between horizontal and vertical layout.
func (l *Ledger) SetOrientation(id ID, o typeset.Orientation) error {
	return l.mutate(id, func(r *Region) bool {
		if r.Orientation == o {
			return false
		}
		r.Orientation = o
		return true
	})
}

// SetStyle replaces a region's style.
func (l *Ledger) SetStyle(id ID, s Style) error {
	return l.mutate(id, func(r *Region) bool {
		if r.Style == s {
			return false
		}
		r.Style = s
		return true
	})
}

// mutate applies fn to the region under the lock; fn reports whether it
// changed anything. Any change bumps the version, invalidating the cached
// plan.
func (l *Ledger) mutate(id ID, fn func(*Region) bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return fmt.Errorf("region %d: not found", id)
	}
	if fn(&e.region) {
		e.version++
	}
	return nil
}

// RenderPlan returns the region's solved layout, recomputing through the
// planner if an edit invalidated the cache. Plans are computed outside the
// lock from an immutable snapshot; a result that raced with a newer edit is
// discarded unread and the computation retried against the latest version,
// so callers always observe a plan consistent with the region they get
// back.
func (l *Ledger) RenderPlan(id ID) (typeset.Plan, error) {
	for {
		l.mu.Lock()
		e, ok := l.entries[id]
		if !ok {
			l.mu.Unlock()
			return typeset.Plan{}, fmt.Errorf("region %d: not found", id)
		}
		if e.planned && e.planVersion == e.version {
			plan, err := e.plan, e.planErr
			l.mu.Unlock()
			return plan, err
		}
		snapshot := e.region
		version := e.version
		l.mu.Unlock()

		plan, err := l.planner.Plan(snapshot)

		l.mu.Lock()
		e, ok = l.entries[id]
		if !ok {
			// Deleted while planning; the stale result is dropped.
			l.mu.Unlock()
			return typeset.Plan{}, fmt.Errorf("region %d: not found", id)
		}
		if e.version != version {
			l.mu.Unlock()
			continue
		}
		e.plan = plan
		e.planErr = err
		e.planVersion = version
		e.planned = true
		l.mu.Unlock()
		return plan, err
	}
}
