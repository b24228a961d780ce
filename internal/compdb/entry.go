// Package compdb reads, rewrites and writes compilation databases
// (compile_commands.json).
package compdb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Keys of the two argument representations an entry may carry.
const (
	KeyArguments = "arguments"
	KeyCommand   = "command"
	KeyFile      = "file"
)

type field struct {
	key   string
	value json.RawMessage
}

// Entry is one object of a compilation database. Fields keep their original
// order and their raw (compacted) encoding, so anything the rewrite does not
// touch is written back as it was read.
type Entry struct {
	fields []field
}

// UnmarshalJSON implements json.Unmarshaler. Only JSON objects are accepted.
func (e *Entry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %s", describeToken(tok))
	}

	e.fields = e.fields[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %s", describeToken(tok))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		e.put(key, compact.Bytes())
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
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

// Keys returns the field names in document order.
func (e *Entry) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.key
	}
	return keys
}

// Get returns the raw value stored under key.
func (e *Entry) Get(key string) (json.RawMessage, bool) {
	for _, f := range e.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set encodes v and stores it under key, keeping the position of an
// existing field.
func (e *Entry) Set(key string, v interface{}) error {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return err
	}
	e.put(key, raw)
	return nil
}

// Arguments returns the "arguments" field when it is an array of strings.
func (e *Entry) Arguments() ([]string, bool) {
	raw, ok := e.Get(KeyArguments)
	if !ok || firstByte(raw) != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	args := make([]string, len(items))
	for i, item := range items {
		if firstByte(item) != '"' {
			return nil, false
		}
		if err := json.Unmarshal(item, &args[i]); err != nil {
			return nil, false
		}
	}
	return args, true
}

// Command returns the "command" field when it is a string.
func (e *Entry) Command() (string, bool) {
	return e.stringField(KeyCommand)
}

// File returns the "file" field when it is a string.
func (e *Entry) File() string {
	s, _ := e.stringField(KeyFile)
	return s
}

func (e *Entry) stringField(key string) (string, bool) {
	raw, ok := e.Get(key)
	if !ok || firstByte(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// put replaces an existing key in place; duplicate keys collapse onto the
// first occurrence with the last value.
func (e *Entry) put(key string, raw json.RawMessage) {
	for i := range e.fields {
		if e.fields[i].key == key {
			e.fields[i].value = raw
			return
		}
	}
	e.fields = append(e.fields, field{key: key, value: raw})
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into raw characters. Escape pairs are consumed whole, so
// an escaped backslash followed by "u2028" is left alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i+1:]; len(rest) >= 5 && string(rest[:4]) == "u202" && (rest[4] == '8' || rest[4] == '9') {
			if rest[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		return string(v)
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
