package a2a

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
)

// PartKind discriminates the Part union on the wire.
type PartKind string

const (
	PartKindText PartKind = "text"
	PartKindFile PartKind = "file"
	PartKindData PartKind = "data"
)

// Part is the tagged union described in spec §3/§4.1. Exactly one of the
// Text/FileURL/FileBytes/Data fields is populated depending on Kind; the
// zero value of the others is the signal that they are absent.
//
// The file variant's decoding contract is the one genuinely tricky piece of
// the wire model: the incoming "file" string is first tried as an absolute
// URL with scheme http/https/file, and only attempted as base64 if that
// fails. See decodeFile for the authoritative implementation.
type Part struct {
	Kind PartKind

	Text string

	FileURL   string
	FileBytes []byte
	HasFile   bool // true once one of FileURL/FileBytes has been populated

	Data []byte

	Metadata map[string]any
}

var recognizedFileSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"file":  true,
}

// NewTextPart builds a text-kind Part.
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewFileURLPart builds a file-kind Part backed by a URL reference.
func NewFileURLPart(u string) Part {
	return Part{Kind: PartKindFile, FileURL: u, HasFile: true}
}

// NewFileBytesPart builds a file-kind Part backed by inline bytes.
func NewFileBytesPart(b []byte) Part {
	return Part{Kind: PartKindFile, FileBytes: b, HasFile: true}
}

// NewDataPart builds a data-kind Part of opaque bytes.
func NewDataPart(b []byte) Part {
	return Part{Kind: PartKindData, Data: b}
}

// wirePart is the literal JSON shape of a Part, used only at the
// (de)serialization boundary so the exported Part type can stay an
// unambiguous Go value rather than a bag of omitempty pointers.
type wirePart struct {
	Kind     PartKind       `json:"kind"`
	Text     string         `json:"text,omitempty"`
	File     string         `json:"file,omitempty"`
	Data     string         `json:"data,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MarshalJSON implements the Part union's encoding contract (spec §4.1):
// for file, prefer the URL when present, else emit base64 of the inline
// bytes; for data, always emit base64.
func (p Part) MarshalJSON() ([]byte, error) {
	w := wirePart{Kind: p.Kind, Metadata: p.Metadata}

	switch p.Kind {
	case PartKindText:
		w.Text = p.Text
	case PartKindFile:
		if p.FileURL != "" {
			w.File = p.FileURL
		} else {
			w.File = base64.StdEncoding.EncodeToString(p.FileBytes)
		}
	case PartKindData:
		w.Data = base64.StdEncoding.EncodeToString(p.Data)
	default:
		return nil, fmt.Errorf("a2a: part has unknown kind %q", p.Kind)
	}

	return json.Marshal(w)
}

// UnmarshalJSON implements the Part union's decoding contract (spec §4.1).
func (p *Part) UnmarshalJSON(raw []byte) error {
	var w wirePart
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}

	out := Part{Kind: w.Kind, Metadata: w.Metadata}

	switch w.Kind {
	case PartKindText:
		out.Text = w.Text
	case PartKindFile:
		fileURL, fileBytes, err := decodeFile(w.File)
		if err != nil {
			return err
		}
		out.FileURL = fileURL
		out.FileBytes = fileBytes
		out.HasFile = true
	case PartKindData:
		b, err := base64.StdEncoding.DecodeString(w.Data)
		if err != nil {
			return fmt.Errorf("a2a: part kind=data has malformed base64: %w", err)
		}
		out.Data = b
	default:
		return fmt.Errorf("a2a: part has unknown kind %q", w.Kind)
	}

	*p = out
	return nil
}

// decodeFile implements the disambiguation contract: an absolute URL with a
// recognized scheme decodes as a URL reference; otherwise the string is
// attempted as base64 bytes; if both fail, decoding fails. Schemes other
// than http/https/file — notably "data:" — do not match the URL branch and
// fall through to the base64 attempt, where they are expected to fail; this
// is intentional (spec §4.1), not a bug: clients must send raw base64, not
// data URIs.
func decodeFile(raw string) (fileURL string, fileBytes []byte, err error) {
	if u, uerr := url.Parse(raw); uerr == nil && u.IsAbs() && recognizedFileSchemes[u.Scheme] {
		return raw, nil, nil
	}

	b, berr := base64.StdEncoding.DecodeString(raw)
	if berr == nil {
		return "", b, nil
	}

	return "", nil, fmt.Errorf("a2a: file part %q is neither an absolute http/https/file URL nor valid base64", raw)
}
