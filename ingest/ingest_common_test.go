package ingest_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/network"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// fakeCall records one write call the fake repository served, in the
// order received. Tests use the sequence to check ordering invariants.
type fakeCall struct {
	Kind      string // "create", "relationship", "datastream"
	PID       string
	Detail    string // predicate for relationships, DSID for datastreams
	Method    string
	Predicate string
	Object    string
	Checksum  string
	MimeType  string
}

// fakeFedora is an in-memory stand-in for the repository REST API.
type fakeFedora struct {
	mu      sync.Mutex
	nextID  int
	Calls   []fakeCall
	Objects map[string]bool
	// FailCreateForLabel forces create-object to 500 for specs whose
	// label matches.
	FailCreateForLabel map[string]bool
	// FailUploadForDsID forces datastream uploads with this DSID to 500.
	FailUploadForDsID map[string]bool
	// Thumbnails maps PID to TN content served on download.
	Thumbnails map[string][]byte
	Server     *httptest.Server
}

func newFakeFedora(t *testing.T) *fakeFedora {
	t.Helper()
	f := &fakeFedora{
		Objects:            make(map[string]bool),
		FailCreateForLabel: make(map[string]bool),
		FailUploadForDsID:  make(map[string]bool),
		Thumbnails:         make(map[string][]byte),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *fakeFedora) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case parts[0] == "describe":
		fmt.Fprint(w, "<fedoraRepository/>")

	case parts[0] == "objects" && len(parts) == 2 && r.Method == "POST":
		label := r.URL.Query().Get("label")
		if f.FailCreateForLabel[label] {
			http.Error(w, "simulated create failure", http.StatusInternalServerError)
			return
		}
		pid := parts[1]
		if pid == "new" {
			f.nextID++
			pid = fmt.Sprintf("test:%d", f.nextID)
		}
		f.Objects[pid] = true
		f.Calls = append(f.Calls, fakeCall{Kind: "create", PID: pid, Method: "POST"})
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, pid)

	case parts[0] == "objects" && len(parts) == 2 && r.Method == "GET":
		if f.Objects[parts[1]] {
			fmt.Fprint(w, "<objectProfile/>")
		} else {
			w.WriteHeader(http.StatusNotFound)
		}

	case len(parts) == 3 && parts[2] == "export":
		if !f.Objects[parts[1]] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `<foxml:digitalObject xmlns:foxml="info:fedora/fedora-system:def/foxml#" PID=%q>
  <foxml:objectProperties>
    <foxml:property NAME="info:fedora/fedora-system:def/model#state" VALUE="Active"/>
  </foxml:objectProperties>
</foxml:digitalObject>`, parts[1])

	case len(parts) == 4 && parts[2] == "relationships" && parts[3] == "new":
		q := r.URL.Query()
		// Record the unqualified predicate name so tests read cleanly.
		predicate := q.Get("predicate")
		if i := strings.LastIndex(predicate, "#"); i >= 0 {
			predicate = predicate[i+1:]
		}
		f.Calls = append(f.Calls, fakeCall{
			Kind:      "relationship",
			PID:       parts[1],
			Detail:    predicate,
			Method:    r.Method,
			Predicate: predicate,
			Object:    q.Get("object"),
		})

	case len(parts) == 5 && parts[2] == "datastreams" && parts[4] == "content":
		data, ok := f.Thumbnails[parts[1]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)

	case len(parts) == 4 && parts[2] == "datastreams":
		dsID := parts[3]
		if f.FailUploadForDsID[dsID] {
			http.Error(w, "simulated upload failure", http.StatusInternalServerError)
			return
		}
		q := r.URL.Query()
		f.Calls = append(f.Calls, fakeCall{
			Kind:     "datastream",
			PID:      parts[1],
			Detail:   dsID,
			Method:   r.Method,
			Checksum: q.Get("checksum"),
			MimeType: q.Get("mimeType"),
		})
		w.WriteHeader(http.StatusCreated)

	default:
		http.Error(w, "unexpected request: "+r.URL.Path, http.StatusBadRequest)
	}
}

// CallsFor returns the recorded calls for one PID, in order.
func (f *fakeFedora) CallsFor(pid string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]fakeCall, 0)
	for _, c := range f.Calls {
		if c.PID == pid {
			calls = append(calls, c)
		}
	}
	return calls
}

// testConfig returns a config with sensible test defaults. Callers
// mutate it before building the context.
func testConfig(t *testing.T) *common.Config {
	t.Helper()
	return &common.Config{
		InputDir:     t.TempDir(),
		FedoraURL:    "http://placeholder.invalid",
		Namespace:    "test",
		ParentPID:    "test:root",
		Relationship: constants.DefaultRelationship,
		Owner:        constants.DefaultOwner,
		State:        constants.StateActive,
		ChecksumType: constants.AlgSha1,
		LogLevel:     logging.DEBUG,
	}
}

// testContext wires a context to the fake repository.
func testContext(t *testing.T, fake *fakeFedora, config *common.Config) *common.Context {
	t.Helper()
	config.FedoraURL = fake.Server.URL
	fake.Objects[config.ParentPID] = true

	logger := logging.MustGetLogger("ingest_test")
	client, err := network.NewFedoraClient(fake.Server.URL, "fedoraAdmin", "secret", logger)
	require.NoError(t, err)
	fmtIdentifier, err := util.NewFormatIdentifier("")
	require.NoError(t, err)

	return &common.Context{
		Config:        config,
		Logger:        logger,
		FedoraClient:  client,
		FmtIdentifier: fmtIdentifier,
	}
}

// writeObjectDir creates an input directory with the given files.
func writeObjectDir(t *testing.T, parent, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for fileName, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0644))
	}
	return dir
}

func modsWithTitle(title string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<mods xmlns="http://www.loc.gov/mods/v3">
  <titleInfo><title>%s</title></titleInfo>
</mods>`, title)
}
