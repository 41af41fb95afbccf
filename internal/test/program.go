package test

import (
	"math/rand"
	"strconv"
	"strings"
)

var locations = []string{"a", "b", "i", "n", "acc"}

// GetRandomProgram returns a syntactically valid program of roughly size
// statements. Programs are not guaranteed to evaluate without errors.
func GetRandomProgram(size int) string {
	r := rand.New(rand.NewSource(int64(size)))

	stmts := make([]string, 0, size)
	for len(stmts) < size {
		stmts = append(stmts, statement(r, 3))
	}

	return strings.Join(stmts, "; ")
}

func statement(r *rand.Rand, depth int) string {
	if depth == 0 {
		return location(r) + " := " + arith(r, 0)
	}

	switch r.Intn(4) {
	case 0:
		return "if " + comparison(r, depth-1) + " then " + statement(r, depth-1) + " else " + statement(r, depth-1)
	case 1:
		return "while " + comparison(r, depth-1) + " do (" + statement(r, depth-1) + "; " + statement(r, depth-1) + ")"
	default:
		return location(r) + " := " + arith(r, depth-1)
	}
}

func comparison(r *rand.Rand, depth int) string {
	return arith(r, depth) + " >= " + arith(r, depth)
}

func arith(r *rand.Rand, depth int) string {
	if depth == 0 || r.Intn(3) == 0 {
		if r.Intn(2) == 0 {
			return "!" + location(r)
		}

		return strconv.Itoa(r.Intn(100) - 50)
	}

	return arith(r, depth-1) + " + " + arith(r, depth-1)
}

func location(r *rand.Rand) string {
	return locations[r.Intn(len(locations))]
}
