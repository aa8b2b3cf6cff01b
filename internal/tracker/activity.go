package tracker

import (
	"context"

	"jobtrack/internal/model"
)

// Recorder appends activity entries as a best-effort side effect of
// lifecycle mutations. Record returns nothing: a failed write is logged and
// never reaches the primary operation's caller. The activity log is
// observational only, so losing an entry is acceptable; blocking or failing
// a primary write over one is not.
type Recorder struct {
	store  Store
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewRecorder creates a Recorder writing to the activities collection.
func NewRecorder(store Store, logger Logger, clock Clock, idgen IDGenerator) *Recorder {
	return &Recorder{store: store, logger: logger, clock: clock, idgen: idgen}
}

// Record appends one activity entry. ID and Timestamp are assigned here if
// unset.
func (r *Recorder) Record(ctx context.Context, act model.Activity) {
	if act.ID == "" {
		act.ID = r.idgen.New()
	}
	if act.Timestamp.IsZero() {
		act.Timestamp = r.clock.Now()
	}

	doc, err := model.ToDocument(act)
	if err != nil {
		r.logger.Warn("activity entry dropped", "type", act.Type, "error", err)
		return
	}
	if err := r.store.Put(ctx, CollActivities, doc); err != nil {
		r.logger.Warn("activity entry dropped", "type", act.Type, "error", err)
	}
}
