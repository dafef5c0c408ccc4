// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PaperVertexShader transforms the strip and passes world-space
// position, normal and page coordinates to the fragment stage.
//
//go:embed paper.vert
var PaperVertexShader string

// PaperFragmentShader lights the page with one ambient and one
// directional light.
//
//go:embed paper.frag
var PaperFragmentShader string
