// Package api provides the HTTP API and WebSocket server for the assistant.
//
// Routes (all under /api/v1):
//
//	GET  /health                          no auth
//	POST /fulfillment                     assistant:fulfill
//	GET  /configuration/form              configuration:read
//	GET  /configuration/translations      configuration:read
//	GET  /configuration/devices/{type}    configuration:read
//	PUT  /configuration/devices/{type}    configuration:write
//	POST /configuration/apply             configuration:apply
//	GET  /ws?token=...                    events:subscribe
//
// Protected routes take a bearer JWT issued by auth.GenerateToken. The
// WebSocket endpoint accepts the token as a query parameter because
// browsers cannot set headers on the upgrade request.
//
// WebSocket clients subscribe to event channels:
//
//   - devices.sync_requested: configuration was applied; the platform
//     should request a fresh SYNC
//   - device.state_changed: a live variable changed on the bus
//
// Errors are returned as {status, code, message}. Duplicate identifiers
// and translation conflicts map to 409 conflict.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
