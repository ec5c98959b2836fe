// Package sms provides transport gateway implementations for the SMS
// channel: an HTTP REST client for providers exposing a plain
// JSON send endpoint, and a development gateway that writes messages to
// disk. Both satisfy notification.TransportGateway.
package sms
