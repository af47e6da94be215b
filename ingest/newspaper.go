package ingest

import (
	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
)

// NewspaperIssue ingests a newspaper issue. Structurally it is a book
// whose pages carry the newspaper page content model.
type NewspaperIssue struct {
	Base
	pageModel string
}

func NewNewspaperIssue(context *common.Context, spec *service.ObjectSpec) Ingester {
	return &NewspaperIssue{
		Base: Base{
			Context:         context,
			ObjectSpec:      spec,
			ParentPID:       context.Config.ParentPID,
			ParentPredicate: context.Config.Relationship,
		},
		pageModel: constants.CModelNewspaperPage,
	}
}

func (n *NewspaperIssue) Ingest() *service.IngestResult {
	result := service.NewIngestResult(n.ObjectSpec.DirName())
	if !n.IngestOwnObject(result) {
		return result
	}
	ingestPages(&n.Base, result, n.pageModel)
	n.BackfillThumbnail(result)
	return result
}
