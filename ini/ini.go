// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"zombiezen.com/go/log"
)

// DefaultUnnamedSection is the name of the section that holds properties
// written before the first section header, unless ParseOptions says otherwise.
const DefaultUnnamedSection = "unnamed"

// A Document is an ordered collection of sections. The zero value is an empty
// document. Documents can be read by multiple concurrent goroutines, but
// GetOrInsert, SectionOrInsert, Set, Delete and Open modify the document.
type Document struct {
	unnamed  string
	sections []*Section
	index    map[string]int
}

// A Section is an ordered collection of properties with unique keys.
type Section struct {
	name  string
	props []Property
	index map[string]int
}

// A Property is a key and its value.
type Property struct {
	Key   string
	Value Value
}

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// UnnamedSection is the name of the section that receives properties
	// written before any section header. If empty, DefaultUnnamedSection is
	// used.
	UnnamedSection string

	// Strict makes Parse return a *ParseError listing every line that is not
	// blank, not a comment, and not a section header or property. The
	// document is still fully populated.
	Strict bool

	// NormalizeSection is called on each section name to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeSection func(name string) string

	// NormalizeKey is called on each key to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeKey func(section, key string) string
}

func (opts *ParseOptions) unnamedSection() string {
	if opts == nil || opts.UnnamedSection == "" {
		return DefaultUnnamedSection
	}
	return opts.UnnamedSection
}

// maxLineLength bounds a single line only by available memory.
const maxLineLength = int(^uint(0) >> 1)

var (
	sectionPattern  = regexp.MustCompile(`^\s*\[([^\[\];]*)\]\s*(?:;.*)?$`)
	propertyPattern = regexp.MustCompile(`^\s*([^=;]+?)\s*=\s*(?:"(.*?)"|'(.*?)'|([^;]*?))\s*(?:;.*)?$`)
	intPattern      = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern    = regexp.MustCompile(`^[+-]?([0-9]*\.[0-9]+|[0-9]+\.[0-9]*|[0-9]+)(e[+-]?[0-9]+)?$`)
)

// Parse parses an INI document. Nil options are treated identically as passing
// the zero value.
//
// See the Syntax section in the package documentation for the format recognized
// by Parse. Lines that are neither section headers nor properties are skipped,
// so Parse only returns an error if reading from r fails or if opts.Strict is
// set and a line was skipped.
func Parse(r io.Reader, opts *ParseOptions) (*Document, error) {
	return ParseContext(context.Background(), r, opts)
}

// ParseContext is like Parse, but skipped lines are logged at debug level to
// the logger in ctx.
func ParseContext(ctx context.Context, r io.Reader, opts *ParseOptions) (*Document, error) {
	d := new(Document)
	err := d.Open(ctx, r, opts)
	return d, err
}

// Open replaces the contents of d with the document read from r.
// It has the same semantics as ParseContext.
func (d *Document) Open(ctx context.Context, r io.Reader, opts *ParseOptions) error {
	d.unnamed = opts.unnamedSection()
	d.sections = nil
	d.index = nil
	curr := d.SectionOrInsert(d.unnamed)

	var skipped []LineError
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineno := 1
	for ; s.Scan(); lineno++ {
		line := s.Text()
		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			name := m[1]
			if opts != nil && opts.NormalizeSection != nil {
				name = opts.NormalizeSection(name)
			}
			curr = d.SectionOrInsert(name)
			continue
		}
		key, value, ok := parseProperty(line)
		if !ok {
			if isBlankOrComment(line) {
				continue
			}
			log.Debugf(ctx, "ini: skipping line %d: %q", lineno, line)
			if opts != nil && opts.Strict {
				skipped = append(skipped, LineError{Line: lineno, Text: line})
			}
			continue
		}
		if opts != nil && opts.NormalizeKey != nil {
			key = opts.NormalizeKey(curr.name, key)
		}
		curr.Set(key, value)
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("parse ini: line %d: %w", lineno, err)
	}
	if len(skipped) > 0 {
		return &ParseError{Lines: skipped}
	}
	return nil
}

// parseProperty matches a key/value line and converts its value field.
func parseProperty(line string) (key string, _ Value, ok bool) {
	m := propertyPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return "", Value{}, false
	}
	key = strings.TrimSpace(line[m[2]:m[3]])
	if key == "" {
		return "", Value{}, false
	}
	switch {
	case m[4] >= 0:
		return key, StrValue(line[m[4]:m[5]]), true
	case m[6] >= 0:
		return key, StrValue(line[m[6]:m[7]]), true
	default:
		return key, convertValue(strings.TrimSpace(line[m[8]:m[9]])), true
	}
}

// convertValue picks the kind of an unquoted value. Integers too large for
// an int64 fall through to the float grammar, and floats too large for a
// float64 become infinities.
func convertValue(v string) Value {
	if intPattern.MatchString(v) {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return Int64Value(i)
		}
	}
	if f, err := parseFloat(v); err == nil {
		return FloatValue(f)
	}
	return StrValue(v)
}

func isBlankOrComment(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || line[0] == ';' || line[0] == '#'
}

// UnnamedSection returns the name of the section that holds properties
// written before the first section header.
func (d *Document) UnnamedSection() string {
	if d == nil || d.unnamed == "" {
		return DefaultUnnamedSection
	}
	return d.unnamed
}

// Get returns the value associated with the given key in the given section.
// It reports false if either the section or the key does not exist.
// Get never modifies d.
func (d *Document) Get(section, key string) (Value, bool) {
	s, ok := d.Section(section)
	if !ok {
		return Value{}, false
	}
	return s.Get(key)
}

// GetOrInsert returns the value associated with the given key in the given
// section. If the section does not exist, it is created. If the key does not
// exist, it is set to a Str holding Placeholder, which is then returned.
func (d *Document) GetOrInsert(section, key string) Value {
	return d.SectionOrInsert(section).GetOrInsert(key)
}

// Section returns the section with the given name. Section never modifies d.
func (d *Document) Section(name string) (*Section, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.sections[i], true
}

// SectionOrInsert returns the section with the given name, appending an empty
// section to the document if there is none.
func (d *Document) SectionOrInsert(name string) *Section {
	if s, ok := d.Section(name); ok {
		return s
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	s := &Section{name: name}
	d.index[name] = len(d.sections)
	d.sections = append(d.sections, s)
	return s
}

// Set sets the property to the given value, creating the section if
// necessary.
func (d *Document) Set(section, key string, v Value) {
	d.SectionOrInsert(section).Set(key, v)
}

// Delete deletes the property with the given key in the named section.
// The section itself is kept, even if it becomes empty.
func (d *Document) Delete(section, key string) {
	if s, ok := d.Section(section); ok {
		s.Delete(key)
	}
}

// Sections returns the document's sections in the order they were first
// seen.
func (d *Document) Sections() []*Section {
	if d == nil {
		return nil
	}
	return append([]*Section(nil), d.sections...)
}

// Names returns the names of the document's sections in the order they were
// first seen.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		names = append(names, s.name)
	}
	return names
}

// Len returns the number of sections in d.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sections)
}

// Clone returns a deep copy of d. Modifying the copy does not affect d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{unnamed: d.unnamed}
	if d.index != nil {
		c.index = make(map[string]int, len(d.index))
		for name, i := range d.index {
			c.index[name] = i
		}
	}
	c.sections = make([]*Section, 0, len(d.sections))
	for _, s := range d.sections {
		c.sections = append(c.sections, s.clone())
	}
	return c
}

// MarshalText serializes the document in INI format. Each section is written
// as a header followed by its properties and a blank line. Str values are
// always quoted.
func (d *Document) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	var buf []byte
	for _, s := range d.sections {
		buf = append(buf, '[')
		buf = append(buf, s.name...)
		buf = append(buf, "]\n"...)
		for _, prop := range s.props {
			buf = append(buf, prop.Key...)
			buf = append(buf, '=')
			buf = prop.Value.appendText(buf)
			buf = append(buf, '\n')
		}
		buf = append(buf, '\n')
	}
	return buf, nil
}

// UnmarshalText parses the INI data, replacing any sections in d. The name of
// d's unnamed section is kept.
func (d *Document) UnmarshalText(data []byte) error {
	opts := &ParseOptions{UnnamedSection: d.UnnamedSection()}
	return d.Open(context.Background(), bytes.NewReader(data), opts)
}

// WriteTo writes the output of MarshalText to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	text, err := d.MarshalText()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(text)
	return int64(n), err
}

// String returns the output of MarshalText as a string.
func (d *Document) String() string {
	text, _ := d.MarshalText()
	return string(text)
}

// Name returns the section's name.
func (s *Section) Name() string {
	return s.name
}

// Get returns the value associated with the given key. Get never modifies s.
func (s *Section) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	i, ok := s.index[key]
	if !ok {
		return Value{}, false
	}
	return s.props[i].Value, true
}

// GetOrInsert returns the value associated with the given key. If there is
// none, the key is set to a Str holding Placeholder, which is then returned.
func (s *Section) GetOrInsert(key string) Value {
	if v, ok := s.Get(key); ok {
		return v
	}
	v := StrValue(Placeholder)
	s.Set(key, v)
	return v
}

// Set sets the key to the given value. A key that already exists keeps its
// position in the section.
func (s *Section) Set(key string, v Value) {
	if i, ok := s.index[key]; ok {
		s.props[i].Value = v
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.props)
	s.props = append(s.props, Property{Key: key, Value: v})
}

// Delete deletes the key from the section, if present.
func (s *Section) Delete(key string) {
	i, ok := s.index[key]
	if !ok {
		return
	}
	copy(s.props[i:], s.props[i+1:])
	// Zero out truncated element for garbage collection.
	s.props[len(s.props)-1] = Property{}
	s.props = s.props[:len(s.props)-1]
	delete(s.index, key)
	for j := i; j < len(s.props); j++ {
		s.index[s.props[j].Key] = j
	}
}

// Keys returns the section's keys in the order they were first set.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.props))
	for _, prop := range s.props {
		keys = append(keys, prop.Key)
	}
	return keys
}

// Properties returns a copy of the section's properties in the order they
// were first set.
func (s *Section) Properties() []Property {
	if s == nil {
		return nil
	}
	return append([]Property(nil), s.props...)
}

// Len returns the number of properties in s.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.props)
}

func (s *Section) clone() *Section {
	c := &Section{
		name:  s.name,
		props: append([]Property(nil), s.props...),
	}
	if s.index != nil {
		c.index = make(map[string]int, len(s.index))
		for key, i := range s.index {
			c.index[key] = i
		}
	}
	return c
}

// A LineError describes a line that Parse skipped.
type LineError struct {
	Line int // 1-based
	Text string
}

// ParseError is returned by Parse in strict mode when lines were skipped.
type ParseError struct {
	Lines []LineError
}

func (e *ParseError) Error() string {
	if len(e.Lines) == 0 {
		return "parse ini: malformed lines"
	}
	first := e.Lines[0]
	if len(e.Lines) == 1 {
		return fmt.Sprintf("parse ini: line %d: malformed line %q", first.Line, first.Text)
	}
	return fmt.Sprintf("parse ini: line %d: malformed line %q (and %d more)", first.Line, first.Text, len(e.Lines)-1)
}
