// Package communication exposes the messaging workflow over HTTP:
// compose preload, email and SMS send, message templates, attachment
// uploads, and transaction lookups.
package communication
