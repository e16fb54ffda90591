// Package assets loads screenshot files referenced by audit records and
// prepares them for embedding in rendered reports.
//
// Screenshots arrive as filesystem paths captured by the external agent.
// Loading is best effort: a missing or oversized file degrades to a
// placeholder instead of failing the whole report, since the scores and
// findings are the deliverable and the images are illustration.
package assets
