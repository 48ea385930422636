package handshake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		server []string
		client []string
		want   string
		ok     bool
	}{
		{"client supports second", []string{"A", "B"}, []string{"B"}, "B", true},
		{"server order wins", []string{"A", "B"}, []string{"B", "A"}, "A", true},
		{"client empty", []string{"A", "B"}, nil, "", false},
		{"server empty", nil, []string{"A"}, "", false},
		{"disjoint", []string{"A"}, []string{"C"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.server, tt.client)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testNegotiator() Negotiator {
	return Negotiator{
		ToClientProtocols:    []string{"msgpack", "json"},
		ToServerProtocols:    []string{"json"},
		ToClientCompressions: []string{"gzip", "none"},
		ToServerCompressions: []string{"none"},
	}
}

func TestNegotiate(t *testing.T) {
	res, err := testNegotiator().Negotiate(Request{
		Version:              Version,
		ToClientProtocols:    []string{"json"},
		ToServerProtocols:    []string{"json", "msgpack"},
		ToClientCompressions: []string{"none", "gzip"},
		ToServerCompressions: []string{"gzip", "none"},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{
		ToClientProtocol:    "json",
		ToServerProtocol:    "json",
		ToClientCompression: "gzip",
		ToServerCompression: "none",
	}, res)

	resp := res.Response()
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Reason)
}

func TestNegotiateFailures(t *testing.T) {
	base := Request{
		Version:              Version,
		ToClientProtocols:    []string{"json"},
		ToServerProtocols:    []string{"json"},
		ToClientCompressions: []string{"none"},
		ToServerCompressions: []string{"none"},
	}
	tests := []struct {
		name    string
		mutate  func(*Request)
		dir     Direction
		concern Concern
	}{
		{"to-client encoding", func(r *Request) { r.ToClientProtocols = []string{"protobuf"} }, ToClient, Encoding},
		{"to-server encoding", func(r *Request) { r.ToServerProtocols = nil }, ToServer, Encoding},
		{"to-client compression", func(r *Request) { r.ToClientCompressions = []string{} }, ToClient, Compression},
		{"to-server compression", func(r *Request) { r.ToServerCompressions = []string{"gzip"} }, ToServer, Compression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			res, err := testNegotiator().Negotiate(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupported)
			assert.Equal(t, Result{}, res, "no partial result on failure")

			var ue *UnsupportedError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.dir, ue.Direction)
			assert.Equal(t, tt.concern, ue.Concern)

			resp := Failure(err)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Reason, string(tt.concern))
		})
	}
}

func TestNegotiateVersion(t *testing.T) {
	_, err := testNegotiator().Negotiate(Request{Version: Version + 1})
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestJSONRoundTrip(t *testing.T) {
	req := Request{
		Version:              Version,
		ToClientProtocols:    []string{"json"},
		ToServerProtocols:    []string{"json"},
		ToClientCompressions: []string{"none"},
		ToServerCompressions: []string{"none"},
		Displays:             []Display{{Width: 1920, Height: 1080, ScaleFactor: 2}},
	}
	data, err := req.Encode()
	require.NoError(t, err)
	got, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	_, err = DecodeRequest([]byte("{"))
	assert.Error(t, err)
}

func TestDecodeResponse(t *testing.T) {
	data, err := Failure(ErrVersionMismatch).Encode()
	require.NoError(t, err)
	resp, err := DecodeResponse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version mismatch")
	assert.False(t, resp.Success)

	data, err = Result{ToClientProtocol: "json"}.Response().Encode()
	require.NoError(t, err)
	resp, err = DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, "json", resp.ToClientProtocol)
}
