package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// Decoding errors.
var (
	// ErrSyntax is returned when the input is not valid JSON.
	ErrSyntax = errors.New("invalid json")

	// ErrNotObject is returned when the input is valid JSON whose top-level
	// value is not an object.
	ErrNotObject = errors.New("json document is not an object")
)

// Parse decodes a JSON document whose top-level value is an object. Object
// keys keep their document order. Numbers are decoded as float64.
func Parse(data []byte) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, syntaxError(data)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w (found %s)", ErrNotObject, resultKind(root))
	}

	m, _ := fromResult(root).(*Map)
	return m, nil
}

// ParseValue decodes a single JSON value of any kind. The whole input must
// be one value; trailing content is a syntax error.
func ParseValue(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, syntaxError(data)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// syntaxError builds an ErrSyntax carrying the decoder's position message.
func syntaxError(data []byte) error {
	var discard any
	err := json.Unmarshal(data, &discard)

	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		return fmt.Errorf("%w: %s (offset %d)", ErrSyntax, se.Error(), se.Offset)
	case err != nil:
		return fmt.Errorf("%w: %s", ErrSyntax, err.Error())
	default:
		return ErrSyntax
	}
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := NewMap()
		r.ForEach(func(key, value gjson.Result) bool {
			m.Set(key.String(), fromResult(value))
			return true
		})
		return m
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromResult(item)
		}
		return out
	}

	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Number:
		return r.Float()
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}

func resultKind(r gjson.Result) Kind {
	switch {
	case r.IsArray():
		return KindArray
	case r.Type == gjson.String:
		return KindString
	case r.Type == gjson.Number:
		return KindNumber
	case r.Type == gjson.True, r.Type == gjson.False:
		return KindBool
	default:
		return KindNull
	}
}

// Encode serialises a tree value as compact JSON. Mapping keys are written in
// insertion order.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			// same as JSON.stringify
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	case string:
		return encodeString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		first := true
		var encErr error
		val.Range(func(k string, item any) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := encodeString(buf, k); err != nil {
				encErr = err
				return false
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, item); err != nil {
				encErr = fmt.Errorf("key %q: %w", k, err)
				return false
			}
			return true
		})
		if encErr != nil {
			return encErr
		}
		buf.WriteByte('}')
	default:
		conv, err := FromGo(v)
		if err != nil {
			return err
		}
		return encodeValue(buf, conv)
	}
	return nil
}

// encodeString writes s as a JSON string without HTML escaping.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
