package network

import (
	"io"
	"net/http"
)

// FedoraObjectType describes what a response's payload refers to.
type FedoraObjectType string

const (
	FedoraDatastream   FedoraObjectType = "Datastream"
	FedoraDescribe     FedoraObjectType = "Describe"
	FedoraObject       FedoraObjectType = "Object"
	FedoraRelationship FedoraObjectType = "Relationship"
)

// FedoraResponse wraps one HTTP exchange with the Fedora REST API.
type FedoraResponse struct {
	// The HTTP request that was (or would have been) sent. Useful
	// for logging and debugging.
	Request *http.Request

	// The HTTP response from the server. Do not try to read
	// Response.Body; it has already been read and closed. Use the
	// RawResponseData() method instead.
	Response *http.Response

	// The error, if any, that occurred while processing this
	// request. Errors may come from the server (4xx or 5xx
	// responses) or from the client.
	Error error

	// PID parsed from the response body for create-object calls.
	PID string

	objectType  FedoraObjectType
	hasBeenRead bool
	data        []byte
}

// NewFedoraResponse creates a new FedoraResponse.
func NewFedoraResponse(objType FedoraObjectType) *FedoraResponse {
	return &FedoraResponse{
		objectType:  objType,
		hasBeenRead: false,
	}
}

// RawResponseData returns the raw body of the HTTP response.
// The return value may be nil.
func (resp *FedoraResponse) RawResponseData() ([]byte, error) {
	if !resp.hasBeenRead {
		resp.readResponse()
	}
	return resp.data, resp.Error
}

// Reads the body of the HTTP response, closes the stream, and stores
// the bytes. The body MUST be closed, or we wind up with a lot of
// open network connections.
func (resp *FedoraResponse) readResponse() {
	if !resp.hasBeenRead && resp.Response != nil && resp.Response.Body != nil {
		resp.data, resp.Error = io.ReadAll(resp.Response.Body)
		resp.Response.Body.Close()
		resp.hasBeenRead = true
	}
}

// StatusCode returns the HTTP status code, or zero if the request
// never completed.
func (resp *FedoraResponse) StatusCode() int {
	if resp.Response == nil {
		return 0
	}
	return resp.Response.StatusCode
}

// ObjectNotFound returns true if Fedora replied with 404/Not Found.
// This is a common expected case, and we want to handle it specially.
func (resp *FedoraResponse) ObjectNotFound() bool {
	return resp.Response != nil && resp.Response.StatusCode == http.StatusNotFound
}

// ObjectType returns the type of object this response refers to.
func (resp *FedoraResponse) ObjectType() FedoraObjectType {
	return resp.objectType
}

// Succeeded returns true if the exchange completed with a 2xx status.
func (resp *FedoraResponse) Succeeded() bool {
	return resp.Error == nil && resp.StatusCode() >= 200 && resp.StatusCode() <= 299
}
