package backend

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// maxDice is the most dice a single roll may draw
	maxDice = 1000000

	// dice are listed individually in traces only below this amount
	maxListedDice = 200

	// maxDieSize keeps die sizes within the range of the random source
	maxDieSize = 1<<31 - 1

	omittedDice = "{ Omitted because more than 200 die were rolled }"
)

// Source draws random numbers for dice. *rand.Rand satisfies it; tests
// substitute deterministic sequences
type Source interface {
	// Intn returns a uniform integer in [0, n)
	Intn(n int) int
}

// NewSource returns a random source seeded with seed, or with the current
// time when seed is 0
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// rollDie rolls a single die with the provided number of sides
func rollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// rollDice draws amount dice of the given size and returns them sorted in
// ascending order
func rollDice(src Source, amount, sides int) []int {
	dice := make([]int, amount)

	for i := range dice {
		dice[i] = rollDie(src, sides)
	}

	sort.Ints(dice)
	return dice
}

func sum(dice []int) (total int) {
	for _, d := range dice {
		total += d
	}

	return total
}

func joinDice(dice []int) string {
	parts := make([]string, len(dice))

	for i, d := range dice {
		parts[i] = strconv.Itoa(d)
	}

	return strings.Join(parts, ", ")
}

// renderDice renders sorted dice as "{1, 4, 6}"
func renderDice(dice []int) string {
	if len(dice) >= maxListedDice {
		return omittedDice
	}

	return "{" + joinDice(dice) + "}"
}

// renderKept renders sorted dice with the discarded ones struck through, for
// example "{~~1~~, 4, 6}" when keeping the highest two of three dice. The
// partition boundary sits exactly at the kept/discarded split
func renderKept(dice []int, keep int, keepHighest bool) string {
	if len(dice) >= maxListedDice {
		return omittedDice
	}

	var kept, discarded []int
	if keepHighest {
		discarded, kept = dice[:len(dice)-keep], dice[len(dice)-keep:]
	} else {
		kept, discarded = dice[:keep], dice[keep:]
	}

	if len(discarded) == 0 {
		return "{" + joinDice(kept) + "}"
	}

	struck := "~~" + joinDice(discarded) + "~~"

	if keepHighest {
		return "{" + struck + ", " + joinDice(kept) + "}"
	}

	return "{" + joinDice(kept) + ", " + struck + "}"
}

// keptDice returns the subset of sorted dice that counts towards a kept roll
func keptDice(dice []int, keep int, keepHighest bool) []int {
	if keepHighest {
		return dice[len(dice)-keep:]
	}

	return dice[:keep]
}
