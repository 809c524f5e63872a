package auth

import (
	"strconv"
	"strings"
	"testing"
)

func TestNewChallengeSolvable(t *testing.T) {
	for i := 0; i < 100; i++ {
		ch := NewChallenge()

		var a, b int
		var op string
		if strings.Contains(ch.Question, "+") {
			op = "+"
		} else if strings.Contains(ch.Question, "-") {
			op = "-"
		} else {
			t.Fatalf("unexpected question: %q", ch.Question)
		}

		trimmed := strings.TrimSuffix(strings.TrimPrefix(ch.Question, "What is "), "?")
		parts := strings.Split(trimmed, " "+op+" ")
		if len(parts) != 2 {
			t.Fatalf("cannot parse question: %q", ch.Question)
		}
		a, _ = strconv.Atoi(parts[0])
		b, _ = strconv.Atoi(parts[1])
		if a < 1 || a > 10 || b < 1 || b > 10 {
			t.Fatalf("operands out of range in %q", ch.Question)
		}

		want := a + b
		if op == "-" {
			want = a - b
		}
		if ch.Answer != strconv.Itoa(want) {
			t.Fatalf("question %q has answer %q, want %d", ch.Question, ch.Answer, want)
		}
	}
}

func TestCheckAnswer(t *testing.T) {
	if !CheckAnswer("7", "7") {
		t.Fatalf("exact match should pass")
	}
	if !CheckAnswer("7", "  7 ") {
		t.Fatalf("answer should be trimmed before comparison")
	}
	if CheckAnswer("7", "8") {
		t.Fatalf("wrong answer should fail")
	}
	if CheckAnswer("", "0") {
		t.Fatalf("missing challenge should never pass")
	}
}
