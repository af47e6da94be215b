package ingest_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandora-tools/batch-ingest-services/ingest"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/util"
)

func testRunner(t *testing.T, fake *fakeFedora, config *common.Config) (*ingest.BatchRunner, *bytes.Buffer) {
	t.Helper()
	context := testContext(t, fake, config)
	runner, err := ingest.NewBatchRunner(context)
	require.NoError(t, err)
	console := &bytes.Buffer{}
	runner.Console = console
	return runner, console
}

func TestBatchRunMixedOutcomes(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	writeObjectDir(t, config.InputDir, "a_good", map[string]string{
		"MODS.xml":   modsWithTitle("Good Object"),
		"thesis.pdf": "pdf bytes",
	})
	writeObjectDir(t, config.InputDir, "b_skipped", map[string]string{
		"data.jp2": "no mods, no label",
	})
	writeObjectDir(t, config.InputDir, "c_failed", map[string]string{
		"MODS.xml": modsWithTitle("Doomed Object"),
		"scan.jp2": "image bytes",
	})
	fake.FailCreateForLabel["Doomed Object"] = true

	runner, console := testRunner(t, fake, config)
	summary, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Ingested)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Resumed)
	assert.True(t, summary.HadErrors())

	out := console.String()
	assert.Contains(t, out, "a_good: ingested as test:1")
	assert.Contains(t, out, "b_skipped: skipped")
	assert.Contains(t, out, "c_failed: FAILED")
	assert.Contains(t, out, "Ingested 1, skipped 1, failed 1, resumed past 0")
	assert.Contains(t, out, "There were errors")
}

func TestBatchRunWithoutErrors(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	writeObjectDir(t, config.InputDir, "obj01", map[string]string{
		"MODS.xml":   modsWithTitle("Only Object"),
		"thesis.pdf": "pdf bytes",
	})

	runner, console := testRunner(t, fake, config)
	summary, err := runner.Run()
	require.NoError(t, err)
	assert.False(t, summary.HadErrors())
	assert.NotContains(t, console.String(), "There were errors")
}

func TestBatchProcessesDirectoriesInSortedOrder(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	for _, name := range []string{"zebra", "apple", "mango"} {
		writeObjectDir(t, config.InputDir, name, map[string]string{
			"MODS.xml": modsWithTitle(name),
			"scan.jp2": "bytes",
		})
	}

	runner, _ := testRunner(t, fake, config)
	summary, err := runner.Run()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, result := range summary.Results {
		names = append(names, result.DirName)
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, names)
}

func TestBatchPreflightFailsOnMissingParent(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	writeObjectDir(t, config.InputDir, "obj01", map[string]string{
		"MODS.xml": modsWithTitle("Never Ingested"),
		"scan.jp2": "bytes",
	})

	runner, _ := testRunner(t, fake, config)
	config.ParentPID = "test:absent"

	_, err := runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test:absent")
	// Nothing was ingested.
	assert.Empty(t, fake.Calls)
}

func TestBatchDeletesInputAfterSuccess(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	config.DeleteInput = true
	goodDir := writeObjectDir(t, config.InputDir, "a_good", map[string]string{
		"MODS.xml":   modsWithTitle("Good Object"),
		"thesis.pdf": "pdf bytes",
	})
	badDir := writeObjectDir(t, config.InputDir, "b_failed", map[string]string{
		"MODS.xml": modsWithTitle("Doomed Object"),
		"scan.jp2": "bytes",
	})
	fake.FailCreateForLabel["Doomed Object"] = true

	runner, _ := testRunner(t, fake, config)
	_, err := runner.Run()
	require.NoError(t, err)

	assert.False(t, util.FileExists(goodDir), "successful input should be deleted")
	assert.True(t, util.FileExists(badDir), "failed input must be kept for a retry")
}

func TestBatchKeepsInputByDefault(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	dir := writeObjectDir(t, config.InputDir, "obj01", map[string]string{
		"MODS.xml":   modsWithTitle("Kept"),
		"thesis.pdf": "pdf bytes",
	})

	runner, _ := testRunner(t, fake, config)
	_, err := runner.Run()
	require.NoError(t, err)
	assert.True(t, util.FileExists(dir))
}

func TestBatchResumeWithoutLedgerIngestsEverything(t *testing.T) {
	fake := newFakeFedora(t)
	config := testConfig(t)
	config.Resume = true // no redis configured; the ledger is a no-op
	writeObjectDir(t, config.InputDir, "obj01", map[string]string{
		"MODS.xml":   modsWithTitle("Ingested Anyway"),
		"thesis.pdf": "pdf bytes",
	})

	runner, _ := testRunner(t, fake, config)
	summary, err := runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ingested)
	assert.Equal(t, 0, summary.Resumed)
}
