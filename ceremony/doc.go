// Package ceremony implements the three-stage CRS transform and the
// verification kernel that checks each player's contribution: Stage1
// (powers of tau), Stage2 (per-variable query evaluation, α/β/ρ-scaled),
// Stage3 (the H-query, ρ_a·ρ_b-scaled), and the Keypair the coordinator
// assembles once every player has completed Stage3.
//
// The three stages are separate types: Stage2 is derived from the final
// Stage1 (NewStage2FromStage1) and Stage3 from the final Stage1's powers
// (NewStage3FromStage1). The package has no type grouping them; the
// coordinator keeps the latest verified state of each stage itself.
package ceremony
