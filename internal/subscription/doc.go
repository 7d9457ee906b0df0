// Package subscription binds a consumer to one real-time channel.
//
// A Subscription is a lifecycle adapter over connection.Manager: it keeps
// exactly one manager alive at a time, relays the latest status and message,
// and guarantees that rebinding to another channel tears the old connection
// down before the new one is created.
package subscription
