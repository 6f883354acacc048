/*
Package session implements multi-user session management over a snapshot store.

A Manager loads a snapshot, runs the stateless engine on it and stores the result, one
operation per session at a time. A second call against a session that is still waiting
for the simulated network is rejected with domain.ErrOperationInProgress rather than
queued. With a distributed locker the same rule holds across replicas sharing a store.
*/
package session
