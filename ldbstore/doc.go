// Package ldbstore implements a CFR strategy profile that keeps all
// node policies on disk in a LevelDB database, rather than in memory.
//
// It is substantially slower than the in-memory table but uses a
// constant amount of memory, so it can scale to games whose information
// set space does not fit in RAM.
package ldbstore
