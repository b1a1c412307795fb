package a2a

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartMarshalFilePrefersURLOverBytes(t *testing.T) {
	p := Part{Kind: PartKindFile, FileURL: "https://example.com/a.png", FileBytes: []byte("ignored")}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"file":"https://example.com/a.png"`)
}

func TestPartMarshalDataAlwaysBase64(t *testing.T) {
	p := NewDataPart([]byte{0x01, 0x02, 0x03})
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":"`+base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})+`"`)
}

func TestPartUnmarshalFileAsAbsoluteURL(t *testing.T) {
	var p Part
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"file","file":"http://example.com/x"}`), &p))
	assert.Equal(t, "http://example.com/x", p.FileURL)
	assert.Nil(t, p.FileBytes)
	assert.True(t, p.HasFile)
}

func TestPartUnmarshalFileAsBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	var p Part
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"file","file":"`+encoded+`"}`), &p))
	assert.Equal(t, "", p.FileURL)
	assert.Equal(t, []byte("hello"), p.FileBytes)
}

func TestPartUnmarshalFileNeitherURLNorBase64Fails(t *testing.T) {
	var p Part
	err := json.Unmarshal([]byte(`{"kind":"file","file":"not a url or base64!!"}`), &p)
	require.Error(t, err)
}

func TestPartUnmarshalDataSchemeFallsThroughToBase64Failure(t *testing.T) {
	// a "data:" URI scheme is not http/https/file, so it must be attempted
	// (and fail) as base64 rather than accepted as a URL reference.
	var p Part
	err := json.Unmarshal([]byte(`{"kind":"file","file":"data:text/plain;base64,aGVsbG8="}`), &p)
	require.Error(t, err)
}

func TestPartUnmarshalUnknownKindFails(t *testing.T) {
	var p Part
	err := json.Unmarshal([]byte(`{"kind":"bogus"}`), &p)
	require.Error(t, err)
}

func TestPartRoundTripText(t *testing.T) {
	orig := NewTextPart("hello world")
	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Part
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, orig, decoded)
}
