package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/metadata"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Classifier derives an ObjectSpec from an input directory and the run
// configuration. Classification is read-only and idempotent: the same
// directory and config always produce the same spec.
type Classifier struct {
	Context    *common.Context
	Dispatcher *Dispatcher
}

func NewClassifier(context *common.Context, dispatcher *Dispatcher) *Classifier {
	return &Classifier{
		Context:    context,
		Dispatcher: dispatcher,
	}
}

// Classify resolves the spec for one directory. A nil spec means the
// directory is skipped: no MODS label, or no resolvable content
// model. Skips are warnings, never errors; the rest of the batch is
// unaffected. Param allowConfiguredModel applies the CLI content-model
// flag, which covers top-level ingests only.
func (c *Classifier) Classify(dir string, allowConfiguredModel bool) *service.ObjectSpec {
	label := c.resolveLabel(dir, "")
	if label == "" {
		return nil
	}
	contentModel := c.resolveContentModel(dir, allowConfiguredModel)
	if contentModel == "" {
		return nil
	}
	spec := c.newSpec(dir, label, contentModel)
	// Composite ingesters classify their children without a
	// dispatcher; constituents always ingest as singles.
	spec.Kind = constants.KindSingle
	if c.Dispatcher != nil {
		spec.Kind = c.Dispatcher.KindFor(contentModel)
	}

	// Use the directory name as the PID when it encodes a valid one
	// and doesn't contradict a configured namespace.
	dirName := filepath.Base(dir)
	if util.IsValidPid(dirName) {
		namespace := c.Context.Config.Namespace
		if namespace == "" || namespace == util.PidNamespace(dirName) {
			spec.PID = dirName
		}
	}
	return spec
}

// ClassifyPage resolves the spec for a page of a book or newspaper
// issue. The content model is fixed by the composite's kind, and a
// page without MODS takes its directory name as the label instead of
// being skipped; page directories routinely carry nothing but the
// scan.
func (c *Classifier) ClassifyPage(dir, pageModel string) *service.ObjectSpec {
	label := c.resolveLabel(dir, filepath.Base(dir))
	spec := c.newSpec(dir, label, pageModel)
	spec.Kind = constants.KindSingle
	return spec
}

func (c *Classifier) newSpec(dir, label, contentModel string) *service.ObjectSpec {
	config := c.Context.Config
	return &service.ObjectSpec{
		Namespace:    config.Namespace,
		Label:        label,
		ContentModel: contentModel,
		Owner:        config.Owner,
		State:        config.State,
		SourceDir:    dir,
		ChecksumType: config.ChecksumType,
	}
}

// resolveLabel reads the title from the directory's MODS file. When
// the file is missing or has no title, fallback is returned; an empty
// fallback means the caller should skip the directory.
func (c *Classifier) resolveLabel(dir, fallback string) string {
	modsPath := filepath.Join(dir, constants.FileNameMods)
	if !util.FileExists(modsPath) {
		if fallback == "" {
			c.Context.Logger.Warningf("Skipping %s: no %s", dir, constants.FileNameMods)
		}
		return fallback
	}
	label, err := metadata.ModsValue(modsPath, "titleInfo/title")
	if err != nil {
		if fallback == "" {
			c.Context.Logger.Warningf("Skipping %s: cannot read title from %s: %v",
				dir, modsPath, err)
		}
		return fallback
	}
	return label
}

// resolveContentModel works through the resolution order: the CLI
// content-model flag, then cmodel.txt, then extension inference on the
// directory's content files. First match wins. Returns an empty string
// when nothing resolves; the directory is then skipped.
func (c *Classifier) resolveContentModel(dir string, allowConfiguredModel bool) string {
	if allowConfiguredModel && c.Context.Config.ContentModel != "" {
		return c.Context.Config.ContentModel
	}

	cmodelPath := filepath.Join(dir, constants.FileNameCModel)
	if util.FileExists(cmodelPath) {
		model := readCmodelFile(cmodelPath)
		if !util.IsValidPid(model) {
			c.Context.Logger.Warningf("Skipping %s: %s does not contain a valid PID",
				dir, cmodelPath)
			return ""
		}
		return model
	}

	for _, name := range c.contentFiles(dir) {
		if model, ok := constants.ContentModels[util.FileExtension(name)]; ok {
			return model
		}
	}
	c.Context.Logger.Warningf("Skipping %s: could not infer a content model", dir)
	return ""
}

// contentFiles returns the directory's content files, sorted: plain
// files minus the metadata files and thumbnail overrides.
func (c *Classifier) contentFiles(dir string) []string {
	files, err := util.ListFiles(dir)
	if err != nil {
		c.Context.Logger.Warningf("Cannot list %s: %v", dir, err)
		return nil
	}
	content := make([]string, 0, len(files))
	for _, name := range files {
		if IsMetadataFile(name) || IsThumbnailFile(name) {
			continue
		}
		content = append(content, name)
	}
	return content
}

func readCmodelFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// IsMetadataFile returns true for the files that describe an object
// rather than carry its content.
func IsMetadataFile(name string) bool {
	return name == constants.FileNameMods || name == constants.FileNameCModel
}

// IsThumbnailFile returns true for thumbnail overrides: TN with any
// image extension.
func IsThumbnailFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.EqualFold(base, constants.DsIDTn)
}
