package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/islandora-tools/batch-ingest-services/metadata"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// BatchRunner drives one run: it walks the top-level input
// directories in sorted order and ingests each one completely before
// moving to the next. Failures are isolated per directory; the only
// things that stop a batch are the configuration-fatal checks in
// Preflight.
type BatchRunner struct {
	Context    *common.Context
	Dispatcher *Dispatcher
	Classifier *Classifier
	Ledger     *Ledger
	Archiver   *Archiver

	// Console receives the per-object progress lines and the final
	// summary. Defaults to stdout.
	Console io.Writer
}

// BatchSummary reports what one run did.
type BatchSummary struct {
	Ingested int
	Skipped  int
	Failed   int
	Resumed  int
	Results  []*service.IngestResult
}

// HadErrors returns true if any object in the batch recorded an
// error, fatal or not.
func (s *BatchSummary) HadErrors() bool {
	for _, result := range s.Results {
		if result.HasErrors() {
			return true
		}
	}
	return false
}

func NewBatchRunner(context *common.Context) (*BatchRunner, error) {
	dispatcher, err := NewDispatcher(context)
	if err != nil {
		return nil, err
	}
	return &BatchRunner{
		Context:    context,
		Dispatcher: dispatcher,
		Classifier: NewClassifier(context, dispatcher),
		Ledger:     NewLedger(context),
		Archiver:   NewArchiver(context),
		Console:    os.Stdout,
	}, nil
}

// Preflight runs the configuration-fatal checks: the repository must
// answer, and the configured parent object must exist. Nothing is
// ingested when this fails.
func (b *BatchRunner) Preflight() error {
	if err := b.Context.FedoraClient.Ping(); err != nil {
		return fmt.Errorf("repository is not reachable: %v", err)
	}
	parentPID := b.Context.Config.ParentPID
	if parentPID != "" {
		resp := b.Context.FedoraClient.GetObject(parentPID)
		if !resp.Succeeded() {
			return fmt.Errorf("parent object %s is not accessible: %v", parentPID, resp.Error)
		}
	}
	return nil
}

// Run ingests every top-level directory under the input dir and
// returns the summary. The returned error is non-nil only for
// configuration-fatal conditions; per-object failures are inside the
// summary.
func (b *BatchRunner) Run() (*BatchSummary, error) {
	if err := b.Preflight(); err != nil {
		return nil, err
	}
	subdirs, err := util.ListSubdirs(b.Context.Config.InputDir)
	if err != nil {
		return nil, fmt.Errorf("cannot list input directory: %v", err)
	}
	summary := &BatchSummary{Results: make([]*service.IngestResult, 0, len(subdirs))}
	for _, name := range subdirs {
		b.processDirectory(name, summary)
	}
	b.report(summary)
	return summary, nil
}

func (b *BatchRunner) processDirectory(name string, summary *BatchSummary) {
	dir := filepath.Join(b.Context.Config.InputDir, name)

	if b.Context.Config.Resume && b.Ledger.IsCompleted(name) {
		b.Context.Logger.Infof("Skipping %s: already ingested per resume ledger", dir)
		fmt.Fprintf(b.Console, "%s: already ingested, resumed past\n", name)
		summary.Resumed++
		return
	}

	spec := b.Classifier.Classify(dir, true)
	if spec == nil {
		result := service.NewIngestResult(name)
		summary.Results = append(summary.Results, result)
		summary.Skipped++
		fmt.Fprintf(b.Console, "%s: skipped\n", name)
		return
	}

	ingester, err := b.Dispatcher.IngesterFor(spec)
	if err != nil {
		// Can only happen when a classmap names a kind nobody
		// registered, which dispatcher construction already rejects.
		b.Context.Logger.Errorf("%v", err)
		result := service.NewIngestResult(name)
		result.Outcome = service.OutcomeFailed
		result.AddError(service.NewProcessingError(name, err.Error(), true))
		summary.Results = append(summary.Results, result)
		summary.Failed++
		return
	}

	result := ingester.Ingest()
	summary.Results = append(summary.Results, result)

	if !result.Succeeded() {
		summary.Failed++
		fmt.Fprintf(b.Console, "%s: FAILED\n", name)
		return
	}
	summary.Ingested++
	fmt.Fprintf(b.Console, "%s: ingested as %s\n", name, result.PID)
	b.verifyIngest(result)

	// Post-success side effects, strictly in this order: record the
	// directory as done, archive the source package, then delete the
	// input if asked to.
	b.Ledger.MarkCompleted(name)
	if b.Context.Config.ArchiveEnabled() {
		if err := b.Archiver.ArchivePackage(dir, result.PID); err != nil {
			b.Context.Logger.Warningf("%v", err)
		}
	}
	if b.Context.Config.DeleteInput {
		if err := util.RecursiveDelete(dir); err != nil {
			b.Context.Logger.Warningf("Could not delete input %s: %v", dir, err)
		} else {
			b.Context.Logger.Infof("Deleted input %s", dir)
		}
	}
}

// verifyIngest re-reads the object's FOXML export and checks the
// repository's view against what we sent. Verification failures are
// warnings: the object is in, and a transient export problem should not
// mark a completed ingest as failed.
func (b *BatchRunner) verifyIngest(result *service.IngestResult) {
	resp := b.Context.FedoraClient.Export(result.PID)
	if resp.Error != nil {
		b.Context.Logger.Warningf("Could not export %s for verification: %v", result.PID, resp.Error)
		return
	}
	data, err := resp.RawResponseData()
	if err != nil {
		b.Context.Logger.Warningf("Could not read export of %s: %v", result.PID, err)
		return
	}
	props, err := metadata.FoxmlProperties(bytes.NewReader(data))
	if err != nil {
		b.Context.Logger.Warningf("Could not parse export of %s: %v", result.PID, err)
		return
	}
	if props.PID != result.PID {
		b.Context.Logger.Warningf("Export PID mismatch: asked for %s, repository returned %s",
			result.PID, props.PID)
		return
	}
	b.Context.Logger.Infof("Verified %s: state %s, %d datastreams on record",
		result.PID, props.Properties["state"], len(props.Datastreams))
}

func (b *BatchRunner) report(summary *BatchSummary) {
	fmt.Fprintf(b.Console, "Ingested %d, skipped %d, failed %d, resumed past %d\n",
		summary.Ingested, summary.Skipped, summary.Failed, summary.Resumed)
	if summary.HadErrors() {
		fmt.Fprintln(b.Console, "There were errors; see the log for details.")
		for _, err := range b.allErrors(summary) {
			b.Context.Logger.Errorf("%s", err.Error())
		}
	}
}

func (b *BatchRunner) allErrors(summary *BatchSummary) []*service.ProcessingError {
	errors := make([]*service.ProcessingError, 0)
	for _, result := range summary.Results {
		errors = append(errors, result.AllErrors()...)
	}
	return errors
}
