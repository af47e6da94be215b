package network

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/islandora-tools/batch-ingest-services/models/service"
)

// FedoraClient supports the calls the batch ingester needs against the
// Fedora 3.x REST API: object creation, relationship assertion, and
// datastream upload/download. It does not cover the full API.
type FedoraClient struct {
	HostURL    string
	APIUser    string
	APIKey     string
	httpClient *http.Client
	logger     *logging.Logger
	transport  *http.Transport
}

// NewFedoraClient creates a new client. Param hostURL should include
// the Fedora context path, e.g. http://localhost:8080/fedora.
func NewFedoraClient(hostURL, apiUser, apiKey string, logger *logging.Logger) (*FedoraClient, error) {
	// see security warning on nil PublicSuffixList here:
	// http://gotour.golang.org/src/pkg/net/http/cookiejar/jar.go?s=1011:1492#L24
	cookieJar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("can't create cookie jar for HTTP client: %v", err)
	}
	transport := &http.Transport{
		DisableKeepAlives: false,
		ForceAttemptHTTP2: true,
	}
	httpClient := &http.Client{Jar: cookieJar, Transport: transport}
	return &FedoraClient{
		HostURL:    strings.TrimRight(hostURL, "/"),
		APIUser:    apiUser,
		APIKey:     apiKey,
		logger:     logger,
		httpClient: httpClient,
		transport:  transport,
	}, nil
}

// Ping hits the repository describe endpoint. An error here at startup
// means the endpoint or credentials are wrong, which is fatal to the
// whole run.
func (client *FedoraClient) Ping() error {
	resp := NewFedoraResponse(FedoraDescribe)
	client.DoRequest(resp, "GET", client.BuildURL("/describe?xml=true"), nil)
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

// CreateObject creates a new object from spec. When spec.PID is set,
// the object is created under that PID; otherwise Fedora assigns the
// next PID in spec.Namespace. The response PID field holds the PID of
// the created object.
func (client *FedoraClient) CreateObject(spec *service.ObjectSpec) *FedoraResponse {
	resp := NewFedoraResponse(FedoraObject)

	params := url.Values{}
	params.Set("label", spec.Label)
	params.Set("ownerId", spec.Owner)
	params.Set("state", spec.State)

	pidPart := "new"
	if spec.PID != "" {
		pidPart = spec.PID
	} else {
		params.Set("namespace", spec.Namespace)
	}
	relativeURL := fmt.Sprintf("/objects/%s?%s", pidPart, params.Encode())

	client.DoRequest(resp, "POST", client.BuildURL(relativeURL), nil)
	if resp.Error != nil {
		return resp
	}
	// Fedora returns the assigned PID as the plain-text response body.
	data, _ := resp.RawResponseData()
	resp.PID = strings.TrimSpace(string(data))
	return resp
}

// GetObject returns the response for an object profile request. Used
// to check that an object (usually the parent collection) exists.
func (client *FedoraClient) GetObject(pid string) *FedoraResponse {
	resp := NewFedoraResponse(FedoraObject)
	relativeURL := fmt.Sprintf("/objects/%s?format=xml", url.PathEscape(pid))
	client.DoRequest(resp, "GET", client.BuildURL(relativeURL), nil)
	return resp
}

// AddRelationship asserts one triple on the object identified by
// triple.SubjectPID.
func (client *FedoraClient) AddRelationship(triple *service.RelationshipTriple) *FedoraResponse {
	resp := NewFedoraResponse(FedoraRelationship)

	params := url.Values{}
	params.Set("subject", triple.SubjectURI())
	params.Set("predicate", triple.PredicateURI())
	params.Set("object", triple.ObjectValue())
	if triple.IsLiteral {
		params.Set("isLiteral", "true")
	} else {
		params.Set("isLiteral", "false")
	}
	relativeURL := fmt.Sprintf("/objects/%s/relationships/new?%s",
		url.PathEscape(triple.SubjectPID), params.Encode())

	client.DoRequest(resp, "POST", client.BuildURL(relativeURL), nil)
	return resp
}

// UploadDatastream sends the content described by ds to the object
// identified by pid. With replace set, an existing datastream with the
// same DSID is modified instead of added; the thumbnail back-fill on
// composite objects uses that mode.
func (client *FedoraClient) UploadDatastream(pid string, ds *service.DatastreamSpec, replace bool) *FedoraResponse {
	resp := NewFedoraResponse(FedoraDatastream)

	file, err := os.Open(ds.SourcePath)
	if err != nil {
		resp.Error = fmt.Errorf("cannot open %s: %v", ds.SourcePath, err)
		return resp
	}
	defer file.Close()

	params := url.Values{}
	params.Set("controlGroup", ds.ControlGroup)
	params.Set("dsLabel", ds.Label)
	params.Set("mimeType", ds.MimeType)
	if ds.Checksum != "" {
		params.Set("checksumType", ds.ChecksumType)
		params.Set("checksum", ds.Checksum)
	}
	relativeURL := fmt.Sprintf("/objects/%s/datastreams/%s?%s",
		url.PathEscape(pid), url.PathEscape(ds.DSID), params.Encode())

	httpMethod := "POST"
	if replace {
		httpMethod = "PUT"
	}
	client.DoRequest(resp, httpMethod, client.BuildURL(relativeURL), file)
	return resp
}

// DownloadDatastream fetches the content of a datastream into a
// uniquely named file under dir and returns the file's path. Returns
// an empty path with a nil error when the datastream does not exist.
func (client *FedoraClient) DownloadDatastream(pid, dsID, dir string) (string, error) {
	resp := NewFedoraResponse(FedoraDatastream)
	relativeURL := fmt.Sprintf("/objects/%s/datastreams/%s/content",
		url.PathEscape(pid), url.PathEscape(dsID))
	client.DoRequest(resp, "GET", client.BuildURL(relativeURL), nil)
	if resp.ObjectNotFound() {
		return "", nil
	}
	if resp.Error != nil {
		return "", resp.Error
	}
	data, err := resp.RawResponseData()
	if err != nil {
		return "", err
	}
	localPath := filepath.Join(dir, uuid.New().String())
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return "", err
	}
	return localPath, nil
}

// Export fetches the FOXML export of an object. The caller parses it
// with metadata.FoxmlProperties to verify what the repository stored.
func (client *FedoraClient) Export(pid string) *FedoraResponse {
	resp := NewFedoraResponse(FedoraObject)
	relativeURL := fmt.Sprintf("/objects/%s/export?context=migrate", url.PathEscape(pid))
	client.DoRequest(resp, "GET", client.BuildURL(relativeURL), nil)
	return resp
}

// BuildURL combines the host URL with a relative URL.
func (client *FedoraClient) BuildURL(relativeURL string) string {
	return client.HostURL + relativeURL
}

// NewRequest returns a request with auth and accept headers set.
func (client *FedoraClient) NewRequest(method, absoluteURL string, requestData io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, absoluteURL, requestData)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(client.APIUser, client.APIKey)
	req.Header.Add("Connection", "Keep-Alive")
	return req, nil
}

// DoRequest issues the request and reads the response. Any problem,
// including a 4xx/5xx status, lands in resp.Error.
func (client *FedoraClient) DoRequest(resp *FedoraResponse, method, absoluteURL string, requestData io.Reader) {
	request, err := client.NewRequest(method, absoluteURL, requestData)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("%s %s: %v", method, absoluteURL, err)
		return
	}

	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Infof("%s %s completed in %s", method, absoluteURL, time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("%s %s: %v", method, absoluteURL, resp.Error)
		return
	}

	// Read the response data and close the response body. That's the
	// only way to close the remote HTTP connection, which will
	// otherwise stay open indefinitely, causing the system to
	// eventually have too many open files.
	resp.readResponse()

	if resp.Error == nil && resp.Response.StatusCode >= 400 {
		body, _ := resp.RawResponseData()
		resp.Error = fmt.Errorf("server returned status code %d. %s %s - Body: %s",
			resp.Response.StatusCode, method, absoluteURL, string(body))
	}
}
