package auth

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Challenge is the arithmetic CAPTCHA shown on every render of a login or
// signup form. The expected answer lives server-side on the session and is
// consumed by the next submission, successful or not.
type Challenge struct {
	Question string
	Answer   string
}

func NewChallenge() Challenge {
	a := rand.Intn(10) + 1
	b := rand.Intn(10) + 1

	if rand.Intn(2) == 0 {
		return Challenge{
			Question: fmt.Sprintf("What is %d + %d?", a, b),
			Answer:   strconv.Itoa(a + b),
		}
	}
	return Challenge{
		Question: fmt.Sprintf("What is %d - %d?", a, b),
		Answer:   strconv.Itoa(a - b),
	}
}

// CheckAnswer compares the submitted answer with the stored one as text,
// after trimming. An empty expected answer means no challenge was issued.
func CheckAnswer(expected, submitted string) bool {
	if expected == "" {
		return false
	}
	return strings.TrimSpace(submitted) == expected
}
