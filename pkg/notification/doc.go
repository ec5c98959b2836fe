// Package notification implements the send-and-record workflow for
// user-triggered email and SMS messages.
//
// A send attempt flows through five stages: the raw form payload is
// validated into an immutable Request, a Pending transaction record is
// persisted, the request is composed into a transport-ready Message
// (sender identity, recipients, body, resolved attachments), the message
// is handed to the channel's TransportGateway, and the record is moved
// to its terminal status. A record left Pending after the workflow
// returns is impossible by construction: every exit path past Begin
// runs Complete.
//
// Error surfacing follows a strict policy: validation failures and a
// missing sender identity are shown to the caller with their specific
// message; every other failure is collapsed into one opaque generic
// message while the real cause is preserved in the record's status
// detail and in internal logs.
//
// Concrete gateways live in pkg/email and pkg/sms; recorders in
// pkg/transaction; attachment stores in pkg/attachment.
package notification
