// Package firstblood selects, for every challenge of a CTF export, the team
// behind the earliest eligible correct submission and assembles the award
// records published from it.
//
// Data flows strictly one way:
//
//	submissions, users, teams  -> FilterEligible    -> candidates
//	candidates                 -> ResolvePrecedence -> winners (one per challenge)
//	winners, challenges, teams -> AssembleRecords   -> award records
//
// Every function is pure. Inputs are never mutated and the same inputs
// always produce the same records in the same order.
package firstblood
