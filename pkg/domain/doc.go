// Package domain contains the core data model of the routing engine:
// conversation state, messages, the department node set, and partial
// updates returned by responders.
//
// Types here carry no behavior beyond pure merges and read access. All
// decision logic lives in the runtime and responder packages.
package domain
