// Package task provides background task processing for work that should not
// block a request, chiefly pre-warming the dialogue cache for a freshly
// unlocked day. Tasks are persisted before execution so unfinished work
// survives a restart, and a small worker pool drains the queue.
package task
