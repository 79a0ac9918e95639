package runtime

import (
	"bytes"
	"io"
	"net/http"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// InstallInterceptor replaces the client's transport with one that
// answers every request from the snapshot store, bypassing real network
// I/O. The response kind is inferred from the request's Accept header.
//
// Installation is explicit dependency injection on the passed client
// handle and is idempotent: installing twice keeps the original
// transport recorded once, so a later uninstall restores it correctly.
func (b *Bridge) InstallInterceptor(client *http.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, installed := b.intercepted[client]; installed {
		return
	}
	b.intercepted[client] = client.Transport
	client.Transport = &snapshotTransport{bridge: b}
}

// UninstallInterceptor restores the client's original transport.
// Calling it on a client that was never intercepted is a no-op, so test
// teardown hooks can call it unconditionally.
func (b *Bridge) UninstallInterceptor(client *http.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	original, installed := b.intercepted[client]
	if !installed {
		return
	}
	client.Transport = original
	delete(b.intercepted, client)
}

// snapshotTransport answers requests from the snapshot store. Lookup
// failures surface as transport errors: the failing test sees exactly
// which path had no registered pattern or missing artifact, and nothing
// is retried.
type snapshotTransport struct {
	bridge *Bridge
}

func (t *snapshotTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	kind := domain.KindForAccept(req.Header.Get("Accept"))

	data, err := t.bridge.LoadForPath(req.Context(), req.URL.Path, kind)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Content-Type", kind.ContentType())

	return &http.Response{
		Status:        http.StatusText(http.StatusOK),
		StatusCode:    http.StatusOK,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		Request:       req,
	}, nil
}
