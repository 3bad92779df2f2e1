// Package redis provides a Redis-backed prompt template source.
//
// Templates are stored as plain strings under "<prefix><id>" keys, so they can be pushed
// once (see 'aura prompts push') and shared by every replica of the service.
package redis
