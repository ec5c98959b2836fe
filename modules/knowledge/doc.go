// Package knowledge exposes the knowledge base over HTTP with
// owner-gated editing.
package knowledge
