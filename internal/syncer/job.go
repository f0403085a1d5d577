package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/logging"
	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/settings"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

// StateKey holds the ids of entries already pushed.
const StateKey = "syncState"

// Payload is what one sync pushes: current configuration plus new time entries.
type Payload struct {
	SentAt  time.Time             `json:"sentAt"`
	Global  settings.GlobalConfig `json:"global"`
	POS     []settings.POSConfig  `json:"pos"`
	Entries []model.TimeEntry     `json:"entries"`
}

// Result counts what a sync run did.
type Result struct {
	Configs int
	Entries int
	Skipped int
}

type pushState struct {
	PushedIDs []string `json:"pushedIds"`
}

// Job collects a payload and pushes it to a Target. Entries are matched by id, so
// an entry is sent once whatever its timestamp. The pushed ids are only recorded
// after a successful push, so a failed run is repeated in full.
type Job struct {
	KV     kvstore.Store
	Events *timetrack.EventLog
	Global *settings.Store[settings.GlobalConfig]
	POS    *settings.POSRegistry
	Target Target
	Now    func() time.Time
	Log    *zap.Logger
}

// Run performs one sync.
func (j *Job) Run(ctx context.Context) (Result, error) {
	log := logging.OrNop(j.Log)
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	var st pushState
	kvstore.LoadOrDefault(j.KV, StateKey, &st, log)
	pushed := make(map[string]bool, len(st.PushedIDs))
	for _, id := range st.PushedIDs {
		pushed[id] = true
	}

	pos, err := j.POS.All()
	if err != nil {
		return Result{}, err
	}
	p := Payload{SentAt: now(), Global: j.Global.Load(), POS: pos, Entries: []model.TimeEntry{}}

	res := Result{Configs: 1 + len(pos)}
	for _, e := range j.Events.AllEntries() {
		if pushed[e.ID] {
			res.Skipped++
			continue
		}
		p.Entries = append(p.Entries, e)
		st.PushedIDs = append(st.PushedIDs, e.ID)
	}
	res.Entries = len(p.Entries)

	if err := j.Target.Push(ctx, p); err != nil {
		return res, err
	}
	if res.Entries > 0 {
		if err := kvstore.SetJSON(j.KV, StateKey, st); err != nil {
			return res, err
		}
	}
	log.Info("sync pushed",
		zap.Int("configs", res.Configs), zap.Int("entries", res.Entries), zap.Int("skipped", res.Skipped))
	return res, nil
}
