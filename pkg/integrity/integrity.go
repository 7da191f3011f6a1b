package integrity

import (
	"fmt"
	"strings"

	"github.com/pgupgrader/pgupgrader/pkg/loader"
	"github.com/pgupgrader/pgupgrader/pkg/tracker"
)

type (
	// TamperDetectedError indicates that an already-applied step's on-disk
	// content no longer matches what the ledger recorded for it.
	TamperDetectedError struct {
		FileID     int
		UpgraderID int

		// Field names what diverged: "sql text" or "description".
		Field string
	}

	// HistoryContinuityError indicates that the ledger is not an unbroken
	// prefix of the full step sequence: a step was deleted, reordered, or
	// inserted before already-recorded ones, or the ledger's timestamps are
	// out of order.
	HistoryContinuityError struct {
		FileID     int
		UpgraderID int
		Reason     string
	}
)

func (e *TamperDetectedError) Error() string {
	return fmt.Sprintf("step %d:%d: %s has changed since it was applied", e.FileID, e.UpgraderID, e.Field)
}

func (e *HistoryContinuityError) Error() string {
	return fmt.Sprintf("step %d:%d: %s", e.FileID, e.UpgraderID, e.Reason)
}

// Validate walks seq and applied in lock step and returns the steps still
// pending, in apply order. Both inputs must already be ordered by
// (file id, upgrader id); the loader and tracker guarantee that.
//
// Every ledger row must line up with the step at the same position in seq,
// both by identity key and by content. A key mismatch is a
// HistoryContinuityError; a content mismatch is a TamperDetectedError. A
// ledger row with no corresponding step in seq at all means the files have
// gone backwards relative to the database and is also a continuity error.
func Validate(seq loader.Sequence, applied []tracker.Record) ([]loader.Step, error) {
	for i := 1; i < len(applied); i++ {
		if applied[i].AppliedOn.Before(applied[i-1].AppliedOn) {
			return nil, &HistoryContinuityError{
				FileID:     applied[i].FileID,
				UpgraderID: applied[i].UpgraderID,
				Reason: fmt.Sprintf(
					"applied at %s, before the preceding step (%s)",
					applied[i].AppliedOn.Format("2006-01-02 15:04:05.000"),
					applied[i-1].AppliedOn.Format("2006-01-02 15:04:05.000"),
				),
			}
		}
	}

	for i, rec := range applied {
		if i >= len(seq) {
			return nil, &HistoryContinuityError{
				FileID:     rec.FileID,
				UpgraderID: rec.UpgraderID,
				Reason:     "recorded in the ledger but missing from the upgrade files",
			}
		}

		step := seq[i]
		if step.FileID != rec.FileID || step.UpgraderID != rec.UpgraderID {
			if less(step, rec) {
				return nil, &HistoryContinuityError{
					FileID:     step.FileID,
					UpgraderID: step.UpgraderID,
					Reason: fmt.Sprintf(
						"missing from the ledger, but later step %d:%d is present",
						rec.FileID, rec.UpgraderID,
					),
				}
			}
			return nil, &HistoryContinuityError{
				FileID:     rec.FileID,
				UpgraderID: rec.UpgraderID,
				Reason:     "recorded in the ledger but missing from the upgrade files",
			}
		}

		if strings.TrimSpace(step.Text) != strings.TrimSpace(rec.Text) {
			return nil, &TamperDetectedError{FileID: step.FileID, UpgraderID: step.UpgraderID, Field: "sql text"}
		}
		if strings.TrimSpace(step.Description) != strings.TrimSpace(rec.Description) {
			return nil, &TamperDetectedError{FileID: step.FileID, UpgraderID: step.UpgraderID, Field: "description"}
		}
	}

	pending := make([]loader.Step, len(seq)-len(applied))
	copy(pending, seq[len(applied):])
	return pending, nil
}

func less(step loader.Step, rec tracker.Record) bool {
	if step.FileID != rec.FileID {
		return step.FileID < rec.FileID
	}
	return step.UpgraderID < rec.UpgraderID
}
