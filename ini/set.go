// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"fmt"
	"os"
)

// DocumentSet is a list of documents to obtain configuration from in
// descending order of precedence. Nil elements are ignored.
type DocumentSet []*Document

// ParseFiles parses the files at the given paths as INI and returns a
// DocumentSet. If the returned error is nil, the returned set's length will be
// the same as the number of arguments. ParseFiles will stop on the first error,
// but ignores missing file errors, instead filling the corresponding element of
// the set with a nil *Document.
func ParseFiles(ctx context.Context, opts *ParseOptions, paths ...string) (DocumentSet, error) {
	dset := make(DocumentSet, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if os.IsNotExist(err) {
			dset = append(dset, nil)
			continue
		}
		if err != nil {
			return dset, fmt.Errorf("parse ini files: %w", err)
		}
		parsed, err := ParseContext(ctx, f, opts)
		f.Close() // Close errors irrelevant.
		if err != nil {
			return dset, fmt.Errorf("parse ini files: %s: %w", p, err)
		}
		dset = append(dset, parsed)
	}
	return dset, nil
}

// Get returns the value from the first document that has the given key in the
// given section. It reports false if no document has it.
func (dset DocumentSet) Get(section, key string) (Value, bool) {
	for _, d := range dset {
		if v, ok := d.Get(section, key); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Names returns the names of sections that appear in any document, in the
// order they are first seen walking the set from highest precedence.
func (dset DocumentSet) Names() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, d := range dset {
		for _, name := range d.Names() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Section returns a merged copy of the named section: each key holds the
// value from the highest-precedence document that sets it. Keys appear in
// the order they are first seen walking the set from highest precedence.
// The returned section does not belong to any document.
func (dset DocumentSet) Section(name string) (*Section, bool) {
	var merged *Section
	for _, d := range dset {
		s, ok := d.Section(name)
		if !ok {
			continue
		}
		if merged == nil {
			merged = &Section{name: name}
		}
		for _, prop := range s.props {
			if _, exists := merged.Get(prop.Key); !exists {
				merged.Set(prop.Key, prop.Value)
			}
		}
	}
	return merged, merged != nil
}
