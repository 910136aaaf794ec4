/*
Package session implements session management and persistence orchestration.

It serializes access to each calculator session so that concurrent key presses
are applied one after the other, integrating per-process locks with an optional
distributed locker and any ports.StateStore.
*/
package session
