package ingest

import (
	"path/filepath"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Book ingests a multi-page book: the book object itself, then each
// child directory as a page in sorted order. A failed page is logged
// and skipped; its siblings and the book itself are unaffected. After
// the pages, the book's thumbnail is backfilled from the first page
// that made it in.
type Book struct {
	Base
	pageModel string
}

func NewBook(context *common.Context, spec *service.ObjectSpec) Ingester {
	return &Book{
		Base: Base{
			Context:         context,
			ObjectSpec:      spec,
			ParentPID:       context.Config.ParentPID,
			ParentPredicate: context.Config.Relationship,
		},
		pageModel: constants.CModelPage,
	}
}

func (b *Book) Ingest() *service.IngestResult {
	result := service.NewIngestResult(b.ObjectSpec.DirName())
	if !b.IngestOwnObject(result) {
		return result
	}
	ingestPages(&b.Base, result, b.pageModel)
	b.BackfillThumbnail(result)
	return result
}

// ingestPages runs the page sequence shared by books and newspaper
// issues: each immediate child directory becomes a page object,
// member of the composite, with structural triples for its position.
func ingestPages(composite *Base, result *service.IngestResult, pageModel string) {
	context := composite.Context
	subdirs, err := util.ListSubdirs(composite.ObjectSpec.SourceDir)
	if err != nil {
		result.AddError(service.NewProcessingError(
			composite.ObjectSpec.PID, err.Error(), false))
		return
	}
	classifier := NewClassifier(context, nil)
	for i, name := range subdirs {
		childDir := filepath.Join(composite.ObjectSpec.SourceDir, name)
		pageSpec := classifier.ClassifyPage(childDir, pageModel)
		page := &Single{
			Base: Base{
				Context:         context,
				ObjectSpec:      pageSpec,
				ParentPID:       composite.ObjectSpec.PID,
				ParentPredicate: constants.RelIsMemberOf,
			},
		}
		childResult := page.Ingest()
		if childResult.Succeeded() {
			triples := PageTriples(pageSpec.PID, composite.ObjectSpec.PID,
				name, i+1, constants.DefaultSection)
			page.ApplyTriples(childResult, triples)
		} else {
			context.Logger.Errorf("Failed to ingest page %s of %s; continuing with remaining pages",
				childDir, composite.ObjectSpec.PID)
		}
		result.AddChild(childResult)
	}
}
