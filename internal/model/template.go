// SPDX-License-Identifier: MIT
// Copyright (c) 2025 The faas3 Authors
//
// This file defines the supported project templates and the file names each
// one uses for its handler source and local test harness.
package model

import "fmt"

// Template is a project template kind.
type Template string

const (
	TemplateDeno Template = "deno"
	TemplateNode Template = "node"
)

// Templates lists every supported kind in display order.
var Templates = []Template{TemplateDeno, TemplateNode}

// ParseTemplate validates a raw template value.
func ParseTemplate(s string) (Template, error) {
	switch t := Template(s); t {
	case TemplateDeno, TemplateNode:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported template %q, expected one of %v", s, Templates)
	}
}

// MainFile is the handler source file name for the template.
func (t Template) MainFile() string {
	switch t {
	case TemplateDeno:
		return "main.ts"
	case TemplateNode:
		return "main.mjs"
	}
	return ""
}

// TestFile is the local test harness file name for the template.
func (t Template) TestFile() string {
	switch t {
	case TemplateDeno:
		return "test.ts"
	case TemplateNode:
		return "test.mjs"
	}
	return ""
}
