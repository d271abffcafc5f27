package schemaio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DuplicateKeyError reports an object key that appears more than once.
// Decoders keep the last occurrence silently, which would hide a property.
type DuplicateKeyError struct {
	Pointer string // JSON Pointer of the object holding the key.
	Key     string
}

func (e *DuplicateKeyError) Error() string {
	p := e.Pointer
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("duplicate key %q in %s", e.Key, p)
}

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	pointer      string
	key          string
	index        int
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// CheckDuplicateKeys returns a *DuplicateKeyError for the first object key
// repeated in data, or the syntax error that stopped the scan.
func CheckDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []*dupFrame

	// next is the pointer of the value about to be read.
	next := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := stack[len(stack)-1]
		if top.object {
			return top.pointer + "/" + pointerEscaper.Replace(top.key)
		}
		return top.pointer + "/" + strconv.Itoa(top.index)
	}
	// done marks the end of one value inside the enclosing container.
	done := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if len(stack) > 0 {
				return io.ErrUnexpectedEOF
			}
			return nil
		}
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, &dupFrame{object: true, keys: map[string]struct{}{}, expectingKey: true, pointer: next()})
			case '[':
				stack = append(stack, &dupFrame{pointer: next()})
			case '}', ']':
				stack = stack[:len(stack)-1]
				done()
			}
			continue
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := stack[n-1]
				if _, dup := top.keys[v]; dup {
					return &DuplicateKeyError{Pointer: top.pointer, Key: v}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
		}
		done()
	}
}
