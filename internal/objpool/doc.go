// Package objpool pools the slice allocations a stage transform churns
// through: every Stage1/Stage2/Stage3 transform builds fresh G1/G2 point
// slices the size of the full powers-of-tau or query vector, runs once
// per player per stage, and then discards them. Adapted from the
// teacher's bbs/pool.go sync.Pool wrapper, narrowed to the slice shapes
// the ceremony actually allocates.
package objpool
