package resumepdf

import (
	"context"
	"fmt"

	"github.com/alnah/go-resumepdf/internal/logger"
)

// Deriver creates new resumes from the latest base resume.
type Deriver struct {
	records RecordStore
	opts    options
}

// NewDeriver returns a Deriver using records.
func NewDeriver(records RecordStore, opts ...Option) *Deriver {
	return &Deriver{records: records, opts: applyOptions(opts)}
}

// Derive copies the newest base resume into a new record related to
// targetID, links targetID back to it and returns the new record id.
// Each call creates a distinct record.
func (d *Deriver) Derive(ctx context.Context, targetID string) (string, error) {
	log := logger.WithContext(ctx, d.opts.logger).With("target_id", targetID)

	if err := ValidateRecordID(targetID); err != nil {
		return "", stageErr(StageDeriveBase, targetID, err)
	}

	base, err := d.records.LatestBaseRecord(ctx)
	if err != nil {
		return "", stageErr(StageDeriveBase, targetID, err)
	}
	if base == nil {
		return "", stageErr(StageDeriveBase, targetID, ErrNoBaseTemplate)
	}
	log.Debug("base resume found", "base_id", base.ID, "bytes", len(base.Markdown))

	id, err := d.records.CreateRecord(ctx, NewRecord{
		Markdown:  base.Markdown,
		CreatedAt: d.opts.now().UTC(),
		RelatedTo: targetID,
	})
	if err != nil {
		return "", stageErr(StageDeriveCreate, targetID, err)
	}
	if id == "" {
		return "", stageErr(StageDeriveCreate, targetID, fmt.Errorf("%w: store returned no id", ErrUpstream))
	}

	if err := d.records.LinkRecord(ctx, targetID, id); err != nil {
		return "", stageErr(StageDeriveLink, targetID, err)
	}

	log.Info("resume derived", "resume_id", id, "base_id", base.ID)
	return id, nil
}
