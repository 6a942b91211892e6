package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ParseOptions interprets a dependent-option response body. A JSON array maps
// each entry to an option with identical label and value. A JSON object uses
// the first key holding an array, in property order. Any other shape yields
// an empty list. Entries that are objects with a "value" key use their own
// label/value; nested arrays and objects without a value are skipped.
func ParseOptions(body []byte) ([]model.Option, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrFetchFailed)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
		}
		return entries(items), nil
	case '{':
		keys, err := orderedKeys(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
		}
		for _, key := range keys {
			raw := bytes.TrimSpace(obj[key])
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("%w: decode %q: %v", ErrFetchFailed, key, err)
			}
			return entries(items), nil
		}
		return []model.Option{}, nil
	default:
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: invalid json", ErrFetchFailed)
		}
		return []model.Option{}, nil
	}
}

func entries(items []json.RawMessage) []model.Option {
	out := make([]model.Option, 0, len(items))
	for _, item := range items {
		var value any
		if err := json.Unmarshal(item, &value); err != nil {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			val, ok := v["value"]
			if !ok || val == nil {
				continue
			}
			opt := model.Option{Value: model.Stringify(val), Label: model.Stringify(val)}
			if label, ok := v["label"]; ok && label != nil {
				opt.Label = model.Stringify(label)
			}
			out = append(out, opt)
		case []any:
			continue
		default:
			text := model.Stringify(v)
			out = append(out, model.Option{Label: text, Value: text})
		}
	}
	return out
}

// orderedKeys lists the top-level keys of a JSON object in the order a
// browser enumerates them: integer-like keys ascending, then the rest in
// document order.
func orderedKeys(obj []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}

	sort.SliceStable(keys, func(i, j int) bool {
		ii, iok := arrayIndex(keys[i])
		jj, jok := arrayIndex(keys[j])
		switch {
		case iok && jok:
			return ii < jj
		case iok:
			return true
		default:
			return false
		}
	})
	return keys, nil
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}
