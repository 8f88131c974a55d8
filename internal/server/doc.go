// Package server exposes a player over HTTP so it can be watched and driven
// from another process or device.
//
// # Endpoints
//
//   - POST /auth - password login, returns a session token
//   - POST /logout - revoke the token the request carries
//   - GET /state - the player's current Snapshot as JSON
//   - POST /command - run one command, e.g. {"command":"goto","frame":12}
//   - GET /events - websocket carrying every player event; commands may be
//     sent back over the same socket
//   - GET / - the browser remote, when Config.Assets is set
//
// # Authentication
//
// When the server is configured with an argon2id password hash, every
// endpoint except /auth and the browser remote requires a token, passed as "Authorization: Bearer
// <token>" or, for browser websockets, as a token query parameter. Login
// attempts are rate limited per client address. Without a hash the server
// is open, which suits loopback use only.
package server
