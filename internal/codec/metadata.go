// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MetadataMarker prefixes the metadata tab. The exact bytes are shared with
// the web and mobile clients.
const MetadataMarker = "♻ Reload this website to hide mobile app metadata! ♻"

// Well-known metadata keys and the defaults injected on encode.
const (
	KeyVersion = "version"
	KeyColor   = "color"
	KeyTitle   = "title"

	DefaultMetadataVersion = 1
	DefaultColor           = -1118482
)

// HasMetadata reports whether a decrypted body carries a metadata tab.
func HasMetadata(plaintext string) bool {
	return strings.Contains(plaintext, MetadataMarker)
}

// DecodeMetadata parses a metadata tab.
func DecodeMetadata(tab string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(strings.ReplaceAll(tab, MetadataMarker, "")), &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	return m, nil
}

// EncodeMetadata renders m as a metadata tab. The version and color fields
// are appended when m does not set them.
func EncodeMetadata(m Metadata) (string, error) {
	payload, err := m.WithDefaults().MarshalJSON()
	if err != nil {
		return "", err
	}
	return MetadataMarker + string(payload), nil
}

// Metadata is an ordered JSON object. Key order and the raw bytes of values
// survive a decode/encode round trip, so metadata written by other clients
// is re-emitted unchanged.
//
// The zero value is an empty object, which a document stores as "no
// metadata tab".
type Metadata struct {
	fields []metadataField
}

type metadataField struct {
	key   string
	value json.RawMessage
}

// Len returns the number of keys.
func (m Metadata) Len() int {
	return len(m.fields)
}

// Keys returns the keys in order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m.fields))
	for i, f := range m.fields {
		keys[i] = f.key
	}
	return keys
}

// Raw returns the JSON encoding of the value stored under key.
func (m Metadata) Raw(key string) (json.RawMessage, bool) {
	if i := m.index(key); i >= 0 {
		return m.fields[i].value, true
	}
	return nil, false
}

// Get decodes the value stored under key. Numbers are returned as
// [json.Number].
func (m Metadata) Get(key string) (any, bool) {
	raw, ok := m.Raw(key)
	if !ok {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Set stores value under key, keeping the position of an existing key.
func (m *Metadata) Set(key string, value any) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return fmt.Errorf("encode metadata value %q: %w", key, err)
	}

	m.setRaw(key, raw)
	return nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Metadata) Delete(key string) {
	if i := m.index(key); i >= 0 {
		m.fields = append(m.fields[:i:i], m.fields[i+1:]...)
	}
}

// Version returns the metadata format version, or the default when unset.
func (m Metadata) Version() int {
	return m.intOr(KeyVersion, DefaultMetadataVersion)
}

// Color returns the site color as a signed ARGB integer, or the default
// when unset.
func (m Metadata) Color() int {
	return m.intOr(KeyColor, DefaultColor)
}

// Title returns the title set by the mobile app, if any.
func (m Metadata) Title() string {
	raw, ok := m.Raw(KeyTitle)
	if !ok {
		return ""
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return ""
	}
	return title
}

// WithDefaults returns a copy of m with version and color appended when
// they are missing.
func (m Metadata) WithDefaults() Metadata {
	out := m.Clone()
	if out.index(KeyVersion) < 0 {
		out.setRaw(KeyVersion, json.RawMessage(fmt.Sprint(DefaultMetadataVersion)))
	}
	if out.index(KeyColor) < 0 {
		out.setRaw(KeyColor, json.RawMessage(fmt.Sprint(DefaultColor)))
	}
	return out
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	out := Metadata{fields: make([]metadataField, len(m.fields))}
	for i, f := range m.fields {
		out.fields[i] = metadataField{key: f.key, value: append(json.RawMessage(nil), f.value...)}
	}
	return out
}

// MarshalJSON implements [json.Marshaler].
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler]. Only JSON objects are
// accepted; a repeated key keeps its first position and its last value.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("metadata must be a JSON object")
	}

	var out Metadata
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected metadata key %v", tok)
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode metadata value %q: %w", key, err)
		}
		out.setRaw(key, raw)
	}

	if _, err = dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

func (m Metadata) index(key string) int {
	for i, f := range m.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}

func (m *Metadata) setRaw(key string, raw json.RawMessage) {
	if i := m.index(key); i >= 0 {
		m.fields[i].value = raw
		return
	}
	m.fields = append(m.fields, metadataField{key: key, value: raw})
}

func (m Metadata) intOr(key string, def int) int {
	raw, ok := m.Raw(key)
	if !ok || string(raw) == "null" {
		return def
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return def
	}
	return n
}

// marshalNoEscape encodes v like JSON.stringify: no HTML escaping of <, >
// and &, no trailing newline.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
