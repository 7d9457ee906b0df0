// Package router maps incoming real-time messages to the cache keys they
// invalidate.
//
// Each dashboard domain (jobs, discovery, trading) has its own dispatch
// table. Tables are stateless data: dispatching a message looks its type up
// and invalidates the registered keys, nothing more. Unknown types are
// ignored so new server-side message types never break older clients.
package router
