// Package events provides the lightweight event plumbing that decouples
// services from background task creation. A service emits a
// TaskRequestEvent when it wants work done asynchronously (for example
// pre-warming the next day's dialogue after a completion) and the task
// layer's handler turns the event into a queued task.
package events
