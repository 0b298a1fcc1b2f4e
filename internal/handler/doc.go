// Package handler implements the HTTP API of domainverse.
//
// # Routes
//
//	GET  /api/domains                         all domains, ?q= searches, ?main=true filters
//	GET  /api/domains/{id}                    one domain
//	GET  /api/domains/{id}/linked             outgoing link targets
//	GET  /api/domains/{id}/children           sub-domains
//	GET  /api/domains/{id}/related            closure over children and links
//	GET  /api/domains/{id}/incoming           domains linking here, with verbs
//	PUT  /api/domains/{id}/name               {"name": "..."}
//	PUT  /api/domains/{id}/links/{target}/verb {"verb": "..."}
//	GET  /api/scene                           ?focus=&zoom_out=true
//	GET  /api/export/{format}                 json or yaml
//	GET  /api/edits                           journaled edits
//	GET  /events                              Server-Sent Events
//	GET  /healthz                             liveness
//	GET  /metrics                             Prometheus exposition (path configurable)
//
// The two PUT routes require an editor token when a signing secret is
// configured.
//
// # Response Format
//
// Success responses return JSON data with status 200.
// Error responses return JSON with {error, details} structure.
package handler
