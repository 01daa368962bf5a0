// Package widget renders a fetched form description as embeddable HTML and
// adapts submissions from the rendered markup onto the submission pipeline.
// It also defines the typed messages exchanged with a host page when the
// widget runs inside an iframe.
//
// The widget and the DOM-adapter front end both hold the pipeline by
// composition; neither owns submission semantics.
package widget
