/*
Package session orchestrates concurrent access to run state.

It serializes operations on the same run with reference-counted local locks,
optionally layered with a distributed locker so multiple replicas can share
a single run store safely.
*/
package session
