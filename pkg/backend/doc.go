// Package backend defines the wire contract with the record-creation service:
// the four JSON endpoints the client consumes, the Client interface front ends
// depend on, and the structured error taxonomy used to classify failures.
// Server-reported failures always surface as *APIError with an explicit code;
// any other transport error is treated as a network-level failure. The default
// HTTP implementation lives in internal/httpclient.
package backend
