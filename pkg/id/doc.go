// Package id provides the 128-bit sortable identifiers attached to events.
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence],
// so byte-wise comparison follows creation order. The Generator keeps IDs
// strictly increasing within a process even if the wall clock steps back.
//
//	g := id.NewGenerator()
//	s := g.Next().String() // 32 hex chars
package id
