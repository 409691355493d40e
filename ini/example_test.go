// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/yourbase/inipp/ini"
)

func ExampleParse() {
	const iniFile = `
[Koko]
name="Taro"
[Apple]
name=5
[Monkey Park]
headers=a,b,c
age=1-2-3`
	cfg, err := ini.Parse(strings.NewReader(iniFile), nil)
	if err != nil {
		// handle error
	}

	name, _ := cfg.Get("Koko", "name")
	fmt.Println("Koko.name:", name.Kind(), name)

	count, _ := cfg.Get("Apple", "name")
	n, err := count.AsInt64()
	if err != nil {
		// handle error
	}
	fmt.Println("Apple.name:", count.Kind(), n)

	headers, _ := cfg.Get("Monkey Park", "headers")
	fields, err := headers.AsStrArr(",")
	if err != nil {
		// handle error
	}
	fmt.Printf("headers: %q\n", fields)

	age, _ := cfg.Get("Monkey Park", "age")
	nums, err := age.AsInt64Arr("-")
	if err != nil {
		// handle error
	}
	fmt.Println("age:", nums)

	// Output:
	// Koko.name: Str "Taro"
	// Apple.name: Int64 5
	// headers: ["a" "b" "c"]
	// age: [1 2 3]
}

// Properties before the first section header go into the unnamed section,
// whose name can be changed.
func ExampleParse_unnamedSection() {
	cfg, err := ini.Parse(strings.NewReader("timeout = 2.5\n"), &ini.ParseOptions{
		UnnamedSection: "global",
	})
	if err != nil {
		// handle error
	}
	v, ok := cfg.Get("global", "timeout")
	fmt.Println(v, ok)

	// Output:
	// 2.5 true
}

// Get never changes the document, while GetOrInsert fills in missing
// sections and keys.
func ExampleDocument_GetOrInsert() {
	cfg := new(ini.Document)

	_, ok := cfg.Get("missing", "key")
	fmt.Println("found:", ok)

	v := cfg.GetOrInsert("missing", "key")
	fmt.Println(v.Kind(), v == ini.StrValue(ini.Placeholder))

	_, ok = cfg.Get("missing", "key")
	fmt.Println("found:", ok)

	// Output:
	// found: false
	// Str true
	// found: true
}

func ExampleDocument_MarshalText() {
	// Using new(ini.Document) creates an empty Document.
	// You can also modify an existing Document from Parse.
	d := new(ini.Document)

	// Use Document.Set to populate values.
	d.Set("mysection", "host", ini.StrValue("example.com"))
	d.Set("mysection", "port", ini.Int64Value(8080))
	d.Set("limits", "ratio", ini.FloatValue(3))

	// Marshal to INI format and write to a file.
	text, err := d.MarshalText()
	if err != nil {
		// handle error
	}
	if _, err := os.Stdout.Write(text); err != nil {
		// handle error
	}

	// Output:
	// [mysection]
	// host="example.com"
	// port=8080
	//
	// [limits]
	// ratio=3.0
}
