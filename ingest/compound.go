package ingest

import (
	"path/filepath"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Compound ingests a compound object: the parent shell, then each
// child directory as a constituent. Unlike book pages, constituents
// are fully classified, so a compound can mix PDFs, images and audio.
// The failure-isolation policy matches books: a failed constituent
// never takes down its siblings or the compound itself.
type Compound struct {
	Base
}

func NewCompound(context *common.Context, spec *service.ObjectSpec) Ingester {
	return &Compound{
		Base: Base{
			Context:         context,
			ObjectSpec:      spec,
			ParentPID:       context.Config.ParentPID,
			ParentPredicate: context.Config.Relationship,
		},
	}
}

func (c *Compound) Ingest() *service.IngestResult {
	result := service.NewIngestResult(c.ObjectSpec.DirName())
	if !c.IngestOwnObject(result) {
		return result
	}
	c.ingestConstituents(result)
	c.BackfillThumbnail(result)
	return result
}

func (c *Compound) ingestConstituents(result *service.IngestResult) {
	subdirs, err := util.ListSubdirs(c.ObjectSpec.SourceDir)
	if err != nil {
		result.AddError(service.NewProcessingError(c.ObjectSpec.PID, err.Error(), false))
		return
	}
	classifier := NewClassifier(c.Context, nil)
	for i, name := range subdirs {
		childDir := filepath.Join(c.ObjectSpec.SourceDir, name)
		childSpec := classifier.Classify(childDir, false)
		if childSpec == nil {
			result.AddChild(service.NewIngestResult(name))
			continue
		}
		constituent := &Single{
			Base: Base{
				Context:         c.Context,
				ObjectSpec:      childSpec,
				ParentPID:       c.ObjectSpec.PID,
				ParentPredicate: constants.RelIsConstituentOf,
			},
		}
		childResult := constituent.Ingest()
		if childResult.Succeeded() {
			constituent.ApplyTriples(childResult,
				ConstituentTriples(childSpec.PID, name, i+1))
		} else {
			c.Context.Logger.Errorf("Failed to ingest constituent %s of %s; continuing",
				childDir, c.ObjectSpec.PID)
		}
		result.AddChild(childResult)
	}
}
