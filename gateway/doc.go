// Package gateway is the HTTP face of the ticket broker. It translates
// browser requests and cookies into goCAS.Authority calls and translates the
// results back into redirects, JSON envelopes and cookie mutations.
//
// Routes:
//
//	GET  /login            check the ticket cookie, hand off or redirect to the login page
//	POST /login            interactive login, sets the ticket cookie
//	POST /verifyTmpTicket  exchange a temporary ticket for the caller's identity
//	POST /logout           revoke the session and clear the cookie
//	GET  /session          current user id for a live ticket cookie
//	GET  /healthz          session store ping
//
// Every JSON response uses the envelope {"code":<int>,"msg":<string>,"data":<any>}.
package gateway
