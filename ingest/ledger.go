package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/islandora-tools/batch-ingest-services/models/common"
)

// Ledger records which top-level directories have been fully ingested,
// so a re-run with --resume can skip them. Backed by a Redis set keyed
// on the absolute input path; a batch with no Redis configured gets a
// disabled ledger that records and recalls nothing.
type Ledger struct {
	Context *common.Context
	key     string
}

func NewLedger(context *common.Context) *Ledger {
	absInput, err := filepath.Abs(context.Config.InputDir)
	if err != nil {
		absInput = context.Config.InputDir
	}
	return &Ledger{
		Context: context,
		key:     fmt.Sprintf("batch_ingest:completed:%s", absInput),
	}
}

// MarkCompleted records dirName as fully ingested. Ledger failures are
// logged and swallowed; losing a resume record is not worth failing an
// object that the repository already accepted.
func (l *Ledger) MarkCompleted(dirName string) {
	if l.Context.RedisClient == nil {
		return
	}
	if err := l.Context.RedisClient.SAdd(l.key, dirName).Err(); err != nil {
		l.Context.Logger.Warningf("Could not record %s in the resume ledger: %v", dirName, err)
	}
}

// IsCompleted returns true if dirName was recorded as ingested by a
// previous run.
func (l *Ledger) IsCompleted(dirName string) bool {
	if l.Context.RedisClient == nil {
		return false
	}
	completed, err := l.Context.RedisClient.SIsMember(l.key, dirName).Result()
	if err != nil {
		l.Context.Logger.Warningf("Could not query the resume ledger for %s: %v", dirName, err)
		return false
	}
	return completed
}

// Clear removes the ledger for this input directory.
func (l *Ledger) Clear() {
	if l.Context.RedisClient == nil {
		return
	}
	if err := l.Context.RedisClient.Del(l.key).Err(); err != nil {
		l.Context.Logger.Warningf("Could not clear the resume ledger: %v", err)
	}
}
