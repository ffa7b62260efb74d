// Package laxenta provides embedded assets for production builds.
package laxenta

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), assets are loaded from disk for hot reloading.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
