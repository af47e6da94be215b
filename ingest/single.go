package ingest

import (
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
)

// Single ingests one leaf object: create it, set its relationships,
// upload its datastreams. Composite ingesters reuse Single for their
// children with the composite as the parent.
type Single struct {
	Base
}

func NewSingle(context *common.Context, spec *service.ObjectSpec) Ingester {
	return &Single{
		Base: Base{
			Context:         context,
			ObjectSpec:      spec,
			ParentPID:       context.Config.ParentPID,
			ParentPredicate: context.Config.Relationship,
		},
	}
}

func (s *Single) Ingest() *service.IngestResult {
	result := service.NewIngestResult(s.ObjectSpec.DirName())
	s.IngestOwnObject(result)
	return result
}
