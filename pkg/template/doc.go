// Package template stores reusable message drafts for the email and SMS
// channels. Applying a template prefills the send form the way a user
// would have typed it; the result still goes through the full request
// validation before anything is sent.
package template
