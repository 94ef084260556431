// Package template defines the text-template seam used for the free-form
// parts of generated files, such as the banner and header comment a target
// prepends to its output. Node rendering never goes through it.
package template
