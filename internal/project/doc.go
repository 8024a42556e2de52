// Package project manages local function projects: scaffolding a new project
// from a template and reading an existing project's config.toml and handler
// source. It performs no network access.
package project
