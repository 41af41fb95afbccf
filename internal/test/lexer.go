package test

import (
	"math/rand"
	"strings"
)

var validTokens = []string{
	"skip", "true", "false", "if", "then", "else", "while", "do",
	"(", ")", "+", ">=", ":=", "!", ";", "\n",
	"0", "1", "-42", "9223372036854775807",
	"a", "counter", "_tmp", "x1",
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	var toks []string
	for len(toks) < size {
		toks = append(toks, validTokens[rand.Intn(len(validTokens))])
	}

	return strings.Join(toks, sep)
}
