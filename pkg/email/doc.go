// Package email provides transport gateway implementations for the
// email channel.
//
// Two gateways are available: the Postmark client for production
// delivery and DevGateway for local development, which writes each
// message to disk as HTML plus JSON metadata. Both satisfy
// notification.TransportGateway; the workflow never depends on a
// concrete provider.
package email
