package multimail

import (
	"net/url"
	"strconv"
)

// Query accumulates optional query parameters. Callers add a parameter only
// when the caller of the tool actually supplied it, so the encoded string
// contains exactly the provided filters. Booleans are serialized explicitly,
// including false, to distinguish "specified as false" from "not specified".
type Query struct {
	values url.Values
}

// NewQuery returns an empty query builder.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// String adds a string parameter. Empty values are omitted.
func (q *Query) String(key, val string) *Query {
	if val != "" {
		q.values.Set(key, val)
	}
	return q
}

// Bool adds a boolean parameter. Call this only for booleans the caller
// explicitly supplied; false is serialized as "false".
func (q *Query) Bool(key string, val bool) *Query {
	q.values.Set(key, strconv.FormatBool(val))
	return q
}

// Int adds an integer parameter.
func (q *Query) Int(key string, val int) *Query {
	q.values.Set(key, strconv.Itoa(val))
	return q
}

// Encode returns the query string including the leading "?", or "" when no
// parameters were added.
func (q *Query) Encode() string {
	if len(q.values) == 0 {
		return ""
	}
	return "?" + q.values.Encode()
}

// Body accumulates JSON request body fields with the same presence rules as
// Query: a field appears only when it was supplied, and array fields only
// when non-empty.
type Body map[string]any

// NewBody returns an empty body builder.
func NewBody() Body {
	return Body{}
}

// Set adds a field unconditionally.
func (b Body) Set(key string, val any) Body {
	b[key] = val
	return b
}

// String adds a string field, omitting empty values.
func (b Body) String(key, val string) Body {
	if val != "" {
		b[key] = val
	}
	return b
}

// Strings adds a string-array field, omitting empty arrays.
func (b Body) Strings(key string, vals []string) Body {
	if len(vals) > 0 {
		b[key] = vals
	}
	return b
}

// CopyPresent copies the named keys from args into a PATCH body when the
// caller supplied them. A key present with a nil value is kept as nil so it
// serializes to JSON null and clears the nullable remote setting; an absent
// key is omitted and leaves the setting unchanged.
func CopyPresent(args map[string]any, keys ...string) Body {
	body := Body{}
	for _, key := range keys {
		if val, ok := args[key]; ok {
			body[key] = val
		}
	}
	return body
}
