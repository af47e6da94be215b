package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/ingest"
	"github.com/islandora-tools/batch-ingest-services/models/service"
)

func testDispatcher(t *testing.T, classmap string) (*ingest.Dispatcher, error) {
	t.Helper()
	fake := newFakeFedora(t)
	config := testConfig(t)
	if classmap != "" {
		path := filepath.Join(t.TempDir(), "classmap.txt")
		require.NoError(t, os.WriteFile(path, []byte(classmap), 0644))
		config.ClassmapFile = path
	}
	return ingest.NewDispatcher(testContext(t, fake, config))
}

func TestDispatcherDefaultKinds(t *testing.T) {
	dispatcher, err := testDispatcher(t, "")
	require.NoError(t, err)

	assert.Equal(t, constants.KindBook, dispatcher.KindFor(constants.CModelBook))
	assert.Equal(t, constants.KindNewspaperIssue, dispatcher.KindFor(constants.CModelNewspaper))
	assert.Equal(t, constants.KindCompound, dispatcher.KindFor(constants.CModelCompound))

	// Anything unmapped ingests as a single object.
	assert.Equal(t, constants.KindSingle, dispatcher.KindFor("islandora:sp_pdf"))
	assert.Equal(t, constants.KindSingle, dispatcher.KindFor("example:neverHeardOfIt"))
}

func TestDispatcherClassmapOverrides(t *testing.T) {
	dispatcher, err := testDispatcher(t, `
# site-local mappings
example:photoAlbumCModel = book
islandora:compoundCModel = single
`)
	require.NoError(t, err)

	assert.Equal(t, constants.KindBook, dispatcher.KindFor("example:photoAlbumCModel"))
	// Overrides beat the built-in table.
	assert.Equal(t, constants.KindSingle, dispatcher.KindFor(constants.CModelCompound))
	// Untouched entries survive.
	assert.Equal(t, constants.KindBook, dispatcher.KindFor(constants.CModelBook))
}

func TestDispatcherRejectsMalformedClassmap(t *testing.T) {
	_, err := testDispatcher(t, "example:photoAlbumCModel book\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 'model = kind'")
}

func TestDispatcherRejectsInvalidModelPid(t *testing.T) {
	_, err := testDispatcher(t, "not a pid = book\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid content model PID")
}

func TestDispatcherRejectsUnknownKind(t *testing.T) {
	_, err := testDispatcher(t, "example:mysteryCModel = hologram\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "hologram"`)
}

func TestDispatcherCustomKind(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	context := testContext(t, fake, config)
	dispatcher, err := ingest.NewDispatcher(context)
	require.NoError(t, err)

	spec := &service.ObjectSpec{PID: "example:1", Kind: "custom"}
	_, err = dispatcher.IngesterFor(spec)
	require.Error(t, err)

	dispatcher.Register("custom", ingest.NewSingle)
	ingester, err := dispatcher.IngesterFor(spec)
	require.NoError(t, err)
	assert.NotNil(t, ingester)
}
