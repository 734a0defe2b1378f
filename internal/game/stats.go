// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package game

// AbilityModifier returns the modifier for an ability score:
// floor((score-10)/2), rounding toward negative infinity, so a score of
// 9 yields -1, not 0.
func AbilityModifier(score int) int {
	return floorDiv(score-10, 2)
}

// MaxHP computes maximum hit points from the class hit die, constitution
// score, and level. Level 1 grants the full hit die; each further level
// grants the average die roll (hitDie/2 + 1). The constitution modifier
// applies at every level.
//
// Pure and total for level >= 1 and hitDie > 0. The result is not
// clamped: a sufficiently negative constitution modifier at high level
// can produce a non-positive total, and policy on that is left to the
// caller.
func MaxHP(hitDie, constitution, level int) int {
	conMod := AbilityModifier(constitution)
	avgDie := hitDie/2 + 1
	return hitDie + conMod + (level-1)*(avgDie+conMod)
}

// floorDiv divides a by b rounding toward negative infinity.
// Go's integer division truncates toward zero, which is wrong for
// negative ability modifiers.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
