// Package form defines the declarative form description fetched from the
// submission backend and the local validation that runs against it before any
// network call is made. A Description is immutable once fetched: callers that
// need a fresh anti-replay nonce replace the whole value rather than mutating
// it in place. Field order inside the description is both display order and
// validation order, and validation collects every failure instead of stopping
// at the first one so front ends can surface all problems together.
package form
