// Package domain defines the core types of the domainverse organizational map.
//
// A Domain is one concept of the organizational framework (a team, a ritual, an
// artefact...). Domains are connected two ways:
//
//   - Links are directed, verb-labelled edges ("PROGRAM contributes to PORTFOLIO").
//     Link order is preserved for display.
//   - ParentID places a domain under another one. The hierarchy is one level deep
//     and is derived from ParentID only; SubDomains is informational.
//
// # Graph
//
// Graph holds the node set loaded from a catalog and answers the queries the
// front-end needs: lookup by id, linked domains, child domains and the
// related-domain closure (links followed in both directions, the hierarchy only
// downwards). Every query is total: unknown ids and dangling
// references produce empty results, never errors.
//
// The only runtime mutations are renaming a domain and relabelling the verb of a
// link. Nodes and edges are never added or removed after construction, so the
// parent and reverse-link indices are built once in NewGraph.
//
// Graph is safe for concurrent use. Queries return copies of the stored domains.
//
// # Design Principles
//
// - No database or external dependencies
// - Explicit graph value, no package-level catalog
// - Dangling references are filtered, not reported as errors
package domain
