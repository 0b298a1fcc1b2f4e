// Package service implements the application logic of domainverse.
//
// The services sit between the HTTP handlers and the in-memory domain graph.
// They translate the graph's total, never-failing queries into errors the
// transport can report, journal edits, cache closures and publish events.
//
// # Services
//
// DomainService answers point and closure queries and applies the two
// runtime edits, renaming a domain and relabelling a link.
//
// SceneService assembles the set of domains and connections a client should
// display for a focus domain, or for the overview when nothing is focused.
//
// # Event System
//
// Edits are published on the EventBus. The SSE hub relays them to connected
// browsers so every open view sees a rename as soon as it happens.
package service
