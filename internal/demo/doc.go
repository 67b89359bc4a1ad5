// Package demo implements the demo display control loop.
//
// Controls binds the standard set of fields (plus one field per metric
// input) to a page. Store aggregates their contributions into the
// configuration record, persists it after a debounce and notifies
// subscribers. Renderer turns the record into a render URL, loads it into
// a preview Frame and re-renders on store updates when autoupdate is set.
package demo
