package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating learner-friendly usernames with a math flavour
var adjectives = []string{
	"prime", "golden", "infinite", "rational", "radical", "acute", "perfect",
	"brilliant", "clever", "swift", "bright", "mighty", "logical", "curious",
	"quick", "sharp", "bold", "cosmic", "dynamic", "epic", "stellar", "rapid",
	"lucky", "magic", "super", "daring", "eager", "lively", "noble", "royal",
}

var nouns = []string{
	"triangle", "vector", "tangent", "theorem", "equation", "fraction",
	"polygon", "prism", "sphere", "spiral", "matrix", "axiom", "integer",
	"parabola", "pyramid", "compass", "cipher", "number", "square", "cube",
	"segment", "radius", "vertex", "factor", "scalar", "quotient", "pi",
}

// GenerateLearnerUsername generates a random username in the format
// "adjective-noun"
func GenerateLearnerUsername() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// GenerateLearnerPassword generates a random 4-character password using
// letters and numbers
func GenerateLearnerPassword() (string, error) {
	chars := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	password := make([]byte, 4)

	for i := 0; i < 4; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		password[i] = chars[num.Int64()]
	}

	return string(password), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
