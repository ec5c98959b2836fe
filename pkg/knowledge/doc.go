// Package knowledge stores knowledge base articles with owner-based
// edit permissions and file attachments referenced by store refs.
package knowledge
