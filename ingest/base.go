package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Ingester is the contract every object kind implements: process one
// classified directory and return the result tree for it.
type Ingester interface {
	Ingest() *service.IngestResult
	Spec() *service.ObjectSpec
}

// Constructor builds an ingester for one classified directory.
type Constructor func(*common.Context, *service.ObjectSpec) Ingester

// Base is the base type for the kind-specific ingesters. It carries
// the shared steps: object creation, relationship assertion, and
// datastream ingestion.
type Base struct {
	Context    *common.Context
	ObjectSpec *service.ObjectSpec

	// ParentPID and ParentPredicate describe where this object hangs
	// in the repository: the configured collection for top-level
	// objects, the composite object for pages and constituents.
	ParentPID       string
	ParentPredicate string
}

// Spec returns this ingester's object spec. This satisfies part of
// the Ingester interface.
func (b *Base) Spec() *service.ObjectSpec {
	return b.ObjectSpec
}

// CreateObject asks the repository to create the object and stores
// the assigned PID back into the spec. A failure here is fatal to the
// object: without an object there is nothing to attach relationships
// or datastreams to.
func (b *Base) CreateObject(result *service.IngestResult) bool {
	resp := b.Context.FedoraClient.CreateObject(b.ObjectSpec)
	if resp.Error != nil {
		result.Outcome = service.OutcomeFailed
		result.AddError(service.NewProcessingError(
			b.ObjectSpec.Identifier(),
			fmt.Sprintf("create object failed: %v", resp.Error),
			true))
		b.Context.Logger.Errorf("Could not create object for %s: %v",
			b.ObjectSpec.SourceDir, resp.Error)
		return false
	}
	b.ObjectSpec.PID = resp.PID
	result.PID = resp.PID
	b.Context.Logger.Infof("Created %s from %s", resp.PID, b.ObjectSpec.SourceDir)
	return true
}

// ApplyTriples sends triples to the repository in order. Failures are
// logged and recorded as non-fatal: the object exists, and the
// remaining steps should still run.
func (b *Base) ApplyTriples(result *service.IngestResult, triples []*service.RelationshipTriple) {
	for _, triple := range triples {
		resp := b.Context.FedoraClient.AddRelationship(triple)
		if resp.Error != nil {
			result.AddError(service.NewProcessingError(
				b.ObjectSpec.PID,
				fmt.Sprintf("could not set relationship %s: %v", triple, resp.Error),
				false))
			b.Context.Logger.Warningf("Could not set relationship %s: %v", triple, resp.Error)
		}
	}
}

// IngestOwnObject runs the shared create -> relate -> upload sequence
// for this ingester's own object. The content-model triple goes first,
// before any datastream upload, so derivative generation on the remote
// side sees the correct model. Returns false when the object could not
// be created.
func (b *Base) IngestOwnObject(result *service.IngestResult) bool {
	if !b.CreateObject(result) {
		return false
	}
	triples := ObjectTriples(b.ObjectSpec, b.ParentPID, b.ParentPredicate)
	b.ApplyTriples(result, triples)

	uploader := NewDatastreamUploader(b.Context)
	for _, err := range uploader.IngestAll(b.ObjectSpec) {
		result.AddError(err)
	}
	result.Outcome = service.OutcomeDone
	return true
}

// BackfillThumbnail copies the TN datastream of the first successfully
// ingested child onto the composite object, replacing any TN it
// already has. A composite with no surviving children, or a child
// without a thumbnail, leaves the composite as is with a warning.
func (b *Base) BackfillThumbnail(result *service.IngestResult) {
	child := result.FirstSucceededChild()
	if child == nil {
		b.Context.Logger.Warningf(
			"No child of %s was ingested; thumbnail not backfilled", b.ObjectSpec.PID)
		return
	}
	tempDir, err := os.MkdirTemp("", "batch-ingest-tn")
	if err != nil {
		b.Context.Logger.Warningf("Could not create temp dir for thumbnail: %v", err)
		return
	}
	defer os.RemoveAll(tempDir)

	localPath, err := b.Context.FedoraClient.DownloadDatastream(child.PID, constants.DsIDTn, tempDir)
	if err != nil {
		b.Context.Logger.Warningf("Could not download thumbnail from %s: %v", child.PID, err)
		return
	}
	if localPath == "" {
		b.Context.Logger.Warningf("Child %s has no thumbnail to backfill onto %s",
			child.PID, b.ObjectSpec.PID)
		return
	}
	uploader := NewDatastreamUploader(b.Context)
	if err := uploader.UploadFile(b.ObjectSpec.PID, constants.DsIDTn, localPath, true); err != nil {
		result.AddError(err)
		b.Context.Logger.Warningf("Could not backfill thumbnail onto %s: %v",
			b.ObjectSpec.PID, err)
		return
	}
	b.Context.Logger.Infof("Backfilled thumbnail on %s from child %s",
		b.ObjectSpec.PID, child.PID)
}

// Dispatcher maps content models to object kinds and kinds to their
// ingester constructors. The model table starts from the static
// mappings in the constants package; a classmap file merges over it
// at startup.
type Dispatcher struct {
	context      *common.Context
	constructors map[string]Constructor
	kindForModel map[string]string
}

func NewDispatcher(context *common.Context) (*Dispatcher, error) {
	d := &Dispatcher{
		context:      context,
		constructors: make(map[string]Constructor),
		kindForModel: make(map[string]string),
	}
	d.Register(constants.KindSingle, NewSingle)
	d.Register(constants.KindBook, NewBook)
	d.Register(constants.KindNewspaperIssue, NewNewspaperIssue)
	d.Register(constants.KindCompound, NewCompound)
	for model, kind := range constants.KindForModel {
		d.kindForModel[model] = kind
	}
	if context.Config.ClassmapFile != "" {
		if err := d.loadClassmap(context.Config.ClassmapFile); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Register adds a kind under the given name. Callers embedding this
// tool can register custom kinds before the batch runs; classmap
// entries may then map content models onto them.
func (d *Dispatcher) Register(kind string, constructor Constructor) {
	d.constructors[kind] = constructor
}

// KindFor returns the object kind for a content model. Unmapped
// models ingest as single objects.
func (d *Dispatcher) KindFor(contentModel string) string {
	if kind, ok := d.kindForModel[contentModel]; ok {
		return kind
	}
	return constants.KindSingle
}

// IngesterFor returns an ingester for the classified spec. An unknown
// kind means a classmap entry named a kind nobody registered, which is
// configuration-fatal.
func (d *Dispatcher) IngesterFor(spec *service.ObjectSpec) (Ingester, error) {
	constructor, ok := d.constructors[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("no ingester registered for kind %q", spec.Kind)
	}
	return constructor(d.context, spec), nil
}

// loadClassmap reads a model-to-kind override file. Each line is
// "content-model = kind"; blank lines and #-comments are ignored.
func (d *Dispatcher) loadClassmap(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read classmap %s: %v", path, err)
	}
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("classmap %s line %d: expected 'model = kind'", path, lineNum+1)
		}
		model := strings.TrimSpace(parts[0])
		kind := strings.TrimSpace(parts[1])
		if !util.IsValidPid(model) {
			return fmt.Errorf("classmap %s line %d: %q is not a valid content model PID",
				path, lineNum+1, model)
		}
		if _, ok := d.constructors[kind]; !ok {
			return fmt.Errorf("classmap %s line %d: unknown kind %q", path, lineNum+1, kind)
		}
		d.kindForModel[model] = kind
	}
	return nil
}
