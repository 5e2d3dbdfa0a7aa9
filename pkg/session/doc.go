/*
Package session keeps track of in-flight collection runs, one per conversation.

The Registry bounds the mapping in two ways: a session idle for longer than the
TTL is treated as abandoned and dropped, and when more than Capacity sessions
exist the least recently touched ones are evicted. Expired sessions are removed
lazily on access, by Sweep, or by the Run janitor.

Messages for the same conversation are serialized with reference-counted
mutexes, optionally backed by a DistributedLocker when several replicas share
a session store. Item values are NOT locked: two conversations writing the same
item concurrently resolve as last-write-wins.
*/
package session
