package util_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/islandora-tools/batch-ingest-services/util"
)

func TestStringListContains(t *testing.T) {
	list := []string{"apple", "orange", "banana"}
	assert.True(t, util.StringListContains(list, "orange"))
	assert.False(t, util.StringListContains(list, "wedgie"))
	// Don't crash on nil list
	assert.False(t, util.StringListContains(nil, "mars"))
}

func TestIsValidPid(t *testing.T) {
	assert.True(t, util.IsValidPid("test:123"))
	assert.True(t, util.IsValidPid("islandora:sp_pdf"))
	assert.True(t, util.IsValidPid("my-ns.2:obj_1.2~3"))
	assert.True(t, util.IsValidPid("test:with%2Fencoded"))

	// 64 chars total is the limit
	longID := strings.Repeat("a", 59)
	assert.True(t, util.IsValidPid("test:"+longID))
	assert.False(t, util.IsValidPid("test:"+longID+"a"))

	assert.False(t, util.IsValidPid(""))
	assert.False(t, util.IsValidPid("nocolon"))
	assert.False(t, util.IsValidPid(":noid"))
	assert.False(t, util.IsValidPid("test:"))
	assert.False(t, util.IsValidPid("test:inv@lid"))
	assert.False(t, util.IsValidPid("bad ns:123"))
	assert.False(t, util.IsValidPid("test:bad%2"))
}

func TestPidNamespace(t *testing.T) {
	assert.Equal(t, "test", util.PidNamespace("test:123"))
	assert.Equal(t, "", util.PidNamespace("nocolon"))
	assert.Equal(t, "", util.PidNamespace(":123"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, util.IsNumeric("0001"))
	assert.True(t, util.IsNumeric("42"))
	assert.False(t, util.IsNumeric(""))
	assert.False(t, util.IsNumeric("12a"))
	assert.False(t, util.IsNumeric("-1"))
}

func TestSequenceFromName(t *testing.T) {
	assert.Equal(t, "1", util.SequenceFromName("0001", 5))
	assert.Equal(t, "12", util.SequenceFromName("0012", 5))
	assert.Equal(t, "42", util.SequenceFromName("42", 5))
	assert.Equal(t, "0", util.SequenceFromName("000", 5))
	// Non-numeric names fall back to sort position
	assert.Equal(t, "5", util.SequenceFromName("page-five", 5))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "jp2", util.FileExtension("scan_0001.JP2"))
	assert.Equal(t, "pdf", util.FileExtension("/tmp/dir/thesis.pdf"))
	assert.Equal(t, "", util.FileExtension("README"))
	assert.Equal(t, "", util.FileExtension("trailing."))
}
