// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the type of data stored in a Value.
type Kind int

// Value kinds. The zero Kind is Str so that the zero Value is the empty string.
const (
	Str Kind = iota
	Int64
	Float
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Int64:
		return "Int64"
	case Float:
		return "Float"
	case Str:
		return "Str"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Placeholder is the string stored by the auto-vivifying accessors
// when a key is missing.
const Placeholder = "-- not found data, the ini object has inserted it automatically --"

// A Value is a single property value: exactly one of a 64-bit signed integer,
// a 64-bit float, or a string. Values are immutable. The zero value is the
// empty string.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int64Value returns an Int64 Value.
func Int64Value(i int64) Value { return Value{kind: Int64, i: i} }

// FloatValue returns a Float Value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StrValue returns a Str Value.
func StrValue(s string) Value { return Value{kind: Str, s: s} }

// Kind returns the kind of data stored in v.
func (v Value) Kind() Kind { return v.kind }

// AsInt64 returns the integer stored in v. It returns a *TypeMismatchError
// if v is not an Int64.
func (v Value) AsInt64() (int64, error) {
	if v.kind != Int64 {
		return 0, &TypeMismatchError{Want: Int64, Got: v.kind}
	}
	return v.i, nil
}

// AsFloat returns the float stored in v. It returns a *TypeMismatchError
// if v is not a Float.
func (v Value) AsFloat() (float64, error) {
	if v.kind != Float {
		return 0, &TypeMismatchError{Want: Float, Got: v.kind}
	}
	return v.f, nil
}

// AsStr returns the string stored in v. It returns a *TypeMismatchError
// if v is not a Str.
func (v Value) AsStr() (string, error) {
	if v.kind != Str {
		return "", &TypeMismatchError{Want: Str, Got: v.kind}
	}
	return v.s, nil
}

// AsStrArr splits a Str value around each match of the regular expression
// delim. Tokens are trimmed of surrounding whitespace and empty tokens are
// dropped, so "a, b,,c," split on "," yields ["a" "b" "c"].
func (v Value) AsStrArr(delim string) ([]string, error) {
	if v.kind != Str {
		return nil, &TypeMismatchError{Want: Str, Got: v.kind}
	}
	re, err := regexp.Compile(delim)
	if err != nil {
		return nil, fmt.Errorf("split ini value: delimiter %q: %w", delim, err)
	}
	var tokens []string
	for _, tok := range re.Split(v.s, -1) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// AsInt64Arr splits a Str value like AsStrArr and parses each token as a
// base-10 integer. It stops at the first token that is not an integer and
// returns a *NumberError describing it.
func (v Value) AsInt64Arr(delim string) ([]int64, error) {
	tokens, err := v.AsStrArr(delim)
	if err != nil {
		return nil, err
	}
	nums := make([]int64, 0, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &NumberError{Index: i, Token: tok, Err: err}
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// AsFloatArr splits a Str value like AsStrArr and parses each token as a
// float written the same way as an unquoted Float property. It stops at the
// first token that is not such a number and returns a *NumberError describing
// it.
func (v Value) AsFloatArr(delim string) ([]float64, error) {
	tokens, err := v.AsStrArr(delim)
	if err != nil {
		return nil, err
	}
	nums := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		f, err := parseFloat(tok)
		if err != nil {
			return nil, &NumberError{Index: i, Token: tok, Err: err}
		}
		nums = append(nums, f)
	}
	return nums, nil
}

// Equal reports whether v and w have the same kind and the same data.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case Int64:
		return v.i == w.i
	case Float:
		return v.f == w.f
	default:
		return v.s == w.s
	}
}

// String returns v as it would appear on the right-hand side of a property.
func (v Value) String() string {
	return string(v.appendText(nil))
}

// MarshalText returns the same text as String.
func (v Value) MarshalText() ([]byte, error) {
	return v.appendText(nil), nil
}

func (v Value) appendText(dst []byte) []byte {
	switch v.kind {
	case Int64:
		return strconv.AppendInt(dst, v.i, 10)
	case Float:
		return appendFloat(dst, v.f)
	default:
		q := byte('"')
		if !canQuote(v.s, '"') && canQuote(v.s, '\'') {
			q = '\''
		}
		dst = append(dst, q)
		dst = append(dst, v.s...)
		return append(dst, q)
	}
}

// canQuote reports whether s wrapped in q reads back as s. The parser ends a
// quoted value at the first q that is followed only by whitespace and an
// optional comment, so s must not contain q followed by that.
func canQuote(s string, q byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		j := i + 1
		for j < len(s) && isRegexpSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] == ';' {
			return false
		}
	}
	return true
}

// isRegexpSpace matches the \s class used by the line grammar.
func isRegexpSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

// parseFloat parses s if it matches the Float grammar. Literals too large
// for a float64 become infinities.
func parseFloat(s string) (float64, error) {
	if !floatPattern.MatchString(s) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

// appendFloat formats f so that it reads back as a Float: a whole number
// gets a ".0" suffix so that it does not match the integer grammar, and
// infinities are written as out-of-range exponents.
func appendFloat(dst []byte, f float64) []byte {
	switch {
	case math.IsInf(f, 1):
		return append(dst, "1e999"...)
	case math.IsInf(f, -1):
		return append(dst, "-1e999"...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		switch c {
		case '.', 'e', 'N':
			// Already distinct from an integer, or NaN.
			return dst
		}
	}
	return append(dst, ".0"...)
}

// ErrTypeMismatch is matched by errors returned from Value accessors that
// were called on a Value of a different kind.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrPartialParse is matched by errors returned from the numeric array
// accessors when a token is not a number.
var ErrPartialParse = errors.New("array element is not a number")

// TypeMismatchError is returned by a Value accessor when the stored kind
// differs from the requested one.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("ini value: %v requested from %v", e.Want, e.Got)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NumberError is returned by AsInt64Arr and AsFloatArr for the first token
// that fails to parse.
type NumberError struct {
	Index int    // position of the token among non-empty tokens
	Token string // trimmed token text
	Err   error  // from strconv
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("ini value: array element %d (%q): %v", e.Index, e.Token, e.Err)
}

func (e *NumberError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPartialParse.
func (e *NumberError) Is(target error) bool {
	return target == ErrPartialParse
}
