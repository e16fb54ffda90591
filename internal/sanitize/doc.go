// Package sanitize strips markup from agent-supplied narrative text.
//
// Executive summaries, issues, and recommendations arrive as free text from
// an external agent and occasionally contain stray HTML. Renderers escape
// their output, but escaped tags still show up as literal angle-bracket
// noise in reports, so markup is removed at the text level before any
// rendering happens.
package sanitize
