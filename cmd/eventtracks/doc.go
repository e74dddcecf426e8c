// Command eventtracks browses and edits event tracks, events and feedback on
// the event-management backend.
package main
