// SPDX-License-Identifier: MIT
// Copyright (c) 2025 The faas3 Authors
//
// Package model holds the data types shared by the faas3 client: the function
// record stored by the FaaS registry, the deploy outcome, the local project
// configuration and the supported project templates.
//
// # Core Concepts
//
//   - FunctionRecord: a function as the registry sees it. Its Name is the
//     stable identifier across list, info, call and verify, and its Content is
//     the exact source uploaded at deploy time.
//
//   - DeployResult: the structured reply of one deploy call.
//
//   - ProjectConfig: the [basic] table of a project's config.toml.
//
//   - Template: the project kind ("deno" or "node"), which decides the name of
//     the file holding the handler source.
//
// The package has no behaviour beyond small helpers and depends on nothing
// outside the standard library.
package model
