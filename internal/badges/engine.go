package badges

import (
	"fmt"
	"time"

	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/store"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

// UnlockedBadge is a catalog entry plus its unlock instant.
type UnlockedBadge struct {
	models.Badge
	UnlockedAt int64 `json:"unlockedAt"`
}

// BadgeStatus is a catalog entry plus unlock state, for listing the
// whole catalog.
type BadgeStatus struct {
	models.Badge
	Unlocked   bool  `json:"unlocked"`
	UnlockedAt int64 `json:"unlockedAt,omitempty"`
}

// Engine evaluates the badge catalog against the history log and owns
// the permanent unlocked set. Unlocks are monotone: once an id is in
// the set it never leaves and its timestamp never changes.
type Engine struct {
	kv       *store.Store
	catalog  []Definition
	byID     map[string]Definition
	unlocked models.UnlockedBadgeRecord
	now      func() time.Time
}

func NewEngine(kv *store.Store) *Engine {
	catalog := Catalog()
	byID := make(map[string]Definition, len(catalog))
	for _, d := range catalog {
		byID[d.ID] = d
	}

	e := &Engine{
		kv:       kv,
		catalog:  catalog,
		byID:     byID,
		unlocked: models.UnlockedBadgeRecord{},
		now:      time.Now,
	}
	kv.Load(store.KeyBadges, &e.unlocked)
	return e
}

// Evaluate checks every not-yet-unlocked badge against history and
// unlocks the newly satisfied ones, returned in catalog order. Meta
// badges run after the main pass so they see the updated unlocked
// count. Calling twice on unchanged history returns nothing the second
// time. The returned error is a persistence failure only; the in-memory
// unlocks stand regardless.
func (e *Engine) Evaluate(history []models.SubmissionEvent) ([]UnlockedBadge, error) {
	var newly []UnlockedBadge
	var metas []Definition

	for _, d := range e.catalog {
		if _, ok := e.unlocked[d.ID]; ok {
			continue
		}
		if _, isMeta := d.Predicate.(metaPredicate); isMeta {
			metas = append(metas, d)
			continue
		}
		if e.safeSatisfied(d, history) {
			newly = append(newly, e.unlock(d))
		}
	}

	for _, d := range metas {
		mp := d.Predicate.(metaPredicate)
		if mp.SatisfiedMeta(history, len(e.unlocked)) {
			newly = append(newly, e.unlock(d))
		}
	}

	if len(newly) == 0 {
		return nil, nil
	}
	if err := e.kv.Save(store.KeyBadges, e.unlocked); err != nil {
		return newly, fmt.Errorf("persist unlocked badges: %w", err)
	}
	return newly, nil
}

func (e *Engine) unlock(d Definition) UnlockedBadge {
	at := e.now().UnixMilli()
	e.unlocked[d.ID] = at
	return UnlockedBadge{Badge: d.Badge, UnlockedAt: at}
}

// safeSatisfied runs one predicate, recovering a panic into "not
// satisfied" so a single bad badge never aborts the catalog pass.
func (e *Engine) safeSatisfied(d Definition, history []models.SubmissionEvent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("badge", d.ID).
				Interface("panic", r).
				Msg("Badge predicate failed, treating as unsatisfied")
			ok = false
		}
	}()
	return d.Predicate.Satisfied(history)
}

// Progress reports partial progress toward a badge, or nil when the
// badge's predicate kind has no meaningful counter. Unknown ids and
// internal failures also report nil; this query never panics outward.
func (e *Engine) Progress(badgeID string, history []models.SubmissionEvent) (p *models.BadgeProgress) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("badge", badgeID).
				Interface("panic", r).
				Msg("Badge progress query failed")
			p = nil
		}
	}()

	d, ok := e.byID[badgeID]
	if !ok {
		return nil
	}
	pr, ok := d.Predicate.(progresser)
	if !ok {
		return nil
	}
	got := pr.Progress(history)
	return &got
}

// Unlocked returns the unlocked badges with their timestamps, in
// catalog order.
func (e *Engine) Unlocked() []UnlockedBadge {
	var out []UnlockedBadge
	for _, d := range e.catalog {
		if at, ok := e.unlocked[d.ID]; ok {
			out = append(out, UnlockedBadge{Badge: d.Badge, UnlockedAt: at})
		}
	}
	return out
}

// Statuses returns every catalog entry with its unlock state, in
// catalog order.
func (e *Engine) Statuses() []BadgeStatus {
	out := make([]BadgeStatus, 0, len(e.catalog))
	for _, d := range e.catalog {
		at, ok := e.unlocked[d.ID]
		out = append(out, BadgeStatus{Badge: d.Badge, Unlocked: ok, UnlockedAt: at})
	}
	return out
}

// ByCategory groups the catalog (with unlock state) by badge category.
func (e *Engine) ByCategory() map[models.BadgeCategory][]BadgeStatus {
	out := map[models.BadgeCategory][]BadgeStatus{}
	for _, s := range e.Statuses() {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// UnlockedRecord returns the raw unlock map, used by data export.
func (e *Engine) UnlockedRecord() models.UnlockedBadgeRecord {
	out := make(models.UnlockedBadgeRecord, len(e.unlocked))
	for id, at := range e.unlocked {
		out[id] = at
	}
	return out
}

// Restore replaces the unlocked set, used by data import.
func (e *Engine) Restore(rec models.UnlockedBadgeRecord) error {
	if rec == nil {
		rec = models.UnlockedBadgeRecord{}
	}
	e.unlocked = rec
	return e.kv.Save(store.KeyBadges, e.unlocked)
}

// Reset clears the unlocked set. Full data reset only; achievements
// are otherwise permanent.
func (e *Engine) Reset() error {
	e.unlocked = models.UnlockedBadgeRecord{}
	return e.kv.Save(store.KeyBadges, e.unlocked)
}
