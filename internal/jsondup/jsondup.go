// Package jsondup detects duplicate object keys in JSON text. Decoding into a
// map silently keeps the last value, so the check runs over the token stream.
package jsondup

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Duplicate is one repeated key. Path is the JSON Pointer of the repeated
// member.
type Duplicate struct {
	Path string
	Key  string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind containerKind
	path string
	// object state
	keys         map[string]struct{}
	expectingKey bool
	key          string
	// array state
	index int
}

// childPath returns the pointer of the value about to be read in f.
func (f *frame) childPath() string {
	if f.kind == kindArray {
		return f.path + "/" + strconv.Itoa(f.index)
	}
	return f.path + "/" + escape(f.key)
}

// valueDone advances f past a completed member value.
func (f *frame) valueDone() {
	if f.kind == kindArray {
		f.index++
		return
	}
	f.expectingKey = true
}

// Find returns every duplicate key in data in document order. A syntax
// error in data is returned as err together with the duplicates found
// before it.
func Find(data []byte) ([]Duplicate, error) {
	return FindReader(bytes.NewReader(data))
}

// FindReader is like Find but consumes r fully.
func FindReader(r io.Reader) ([]Duplicate, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		dups  []Duplicate
		stack []*frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return dups, io.ErrUnexpectedEOF
			}
			return dups, nil
		}
		if err != nil {
			return dups, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				path := ""
				if t := top(); t != nil {
					path = t.childPath()
				}
				f := &frame{kind: kindArray, path: path}
				if v == '{' {
					f.kind = kindObject
					f.keys = map[string]struct{}{}
					f.expectingKey = true
				}
				stack = append(stack, f)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				if t := top(); t != nil {
					t.valueDone()
				}
			}
		case string:
			t := top()
			if t != nil && t.kind == kindObject && t.expectingKey {
				if _, seen := t.keys[v]; seen {
					dups = append(dups, Duplicate{Path: pointer(t.path, v), Key: v})
				}
				t.keys[v] = struct{}{}
				t.key = v
				t.expectingKey = false
				continue
			}
			if t != nil {
				t.valueDone()
			}
		default:
			if t := top(); t != nil {
				t.valueDone()
			}
		}
	}
}

func pointer(parent, key string) string {
	return parent + "/" + escape(key)
}

// escape applies RFC 6901 escaping to a reference token.
func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
