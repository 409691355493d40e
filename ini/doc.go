// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini provides a parser and serializer for typed INI documents.
See https://en.wikipedia.org/wiki/INI_file.

Each property value is stored as exactly one of an integer, a floating-point
number, or a string, chosen from how the value is written. String values can
be reinterpreted on demand as delimited arrays.

Syntax

An INI document is text made of lines. A line is either a section header, a
property, or something else, which is ignored.

A section header is a name in square brackets. The name may not contain
square brackets or semicolons and is used verbatim, including any inner
whitespace. A comment starting with a semicolon may follow the header:

	[Monkey Park] ; the park

A property is a key and value separated by an equals sign ('='):

	key=value

Keys may not contain semicolons or equals signs. Whitespace around keys and
values is ignored. A semicolon starts a comment that runs to the end of the
line, unless it is inside a quoted value.

Properties encountered before a section header belong to the unnamed section,
called "unnamed" by default (see ParseOptions.UnnamedSection).

Values

A value surrounded by double quotes ('"') or single quotes (''') is a string.
The quotes are removed and the contents are used verbatim; no escape sequences
are recognized. Quoted values are never treated as numbers:

	name="Taro"   ; Str "Taro"
	zip='01234'   ; Str "01234"

Otherwise, a value made of an optional sign and decimal digits is an Int64,
a value in decimal or exponent notation (lowercase 'e') is a Float, and
anything else is a Str:

	count=5       ; Int64 5
	ratio=-1.5e3  ; Float -1500
	headers=a,b,c ; Str "a,b,c"

Repeated names

If a key appears more than once in the same section, the last value wins.
Multiple sections may have the same name. These are treated as if their
properties were presented contiguously in the same section.

Lookups

Document.Get and Section.Get never modify the document and report whether the
property exists. Document.GetOrInsert and Section.GetOrInsert create missing
sections and store Placeholder for missing keys, mirroring the indexing
behavior of associative containers in other languages.
*/
package ini
