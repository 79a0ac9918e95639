package domain

import (
	"fmt"
	"strings"
)

// ResponseKind is the category of rendered output stored for a path:
// a full document, or a partial stream update applied to an existing page.
type ResponseKind string

const (
	// Document is plain page or fragment markup.
	Document ResponseKind = "document"
	// StreamUpdate is partial markup delivered as a stream update
	// (a turbo-stream body) rather than a full document.
	StreamUpdate ResponseKind = "stream"
)

// StreamContentType is the MIME type stream-capable clients advertise in
// the Accept header and servers set on stream responses.
const StreamContentType = "text/vnd.turbo-stream.html"

// ParseResponseKind converts the textual form used in generator sources
// and CLI flags into a ResponseKind.
func ParseResponseKind(s string) (ResponseKind, error) {
	switch ResponseKind(s) {
	case Document:
		return Document, nil
	case StreamUpdate:
		return StreamUpdate, nil
	}
	return "", fmt.Errorf("unknown response kind %q (want %q or %q)", s, Document, StreamUpdate)
}

// Valid reports whether k is one of the defined kinds.
func (k ResponseKind) Valid() bool {
	return k == Document || k == StreamUpdate
}

// ContentType returns the HTTP content type for responses of this kind.
func (k ResponseKind) ContentType() string {
	if k == StreamUpdate {
		return StreamContentType
	}
	return "text/html; charset=utf-8"
}

// KindForAccept infers the response kind a client is asking for from its
// Accept header. Stream-capable clients list the turbo-stream MIME type
// first; everything else is treated as a document request.
func KindForAccept(accept string) ResponseKind {
	if strings.Contains(accept, StreamContentType) {
		return StreamUpdate
	}
	return Document
}
