package content

// Flashcard is one card in the static review catalog
type Flashcard struct {
	ID     string
	Topic  string
	Front  string
	Back   string
}

// Topics used across the content catalogs
const (
	TopicNumbers   = "numbers"
	TopicAlgebra   = "algebra"
	TopicGeometry  = "geometry"
	TopicFunctions = "functions"
	TopicData      = "data"
)

// Flashcards is the static flashcard catalog. IDs must stay stable because
// persisted review records reference them.
var Flashcards = []Flashcard{
	{ID: "fc-frac-add", Topic: TopicNumbers, Front: "How do you add two fractions with different denominators?", Back: "Rewrite both over a common denominator, then add the numerators."},
	{ID: "fc-frac-div", Topic: TopicNumbers, Front: "Dividing by a fraction is the same as...", Back: "Multiplying by its reciprocal."},
	{ID: "fc-neg-mult", Topic: TopicNumbers, Front: "What is the sign of the product of two negative numbers?", Back: "Positive."},
	{ID: "fc-prime", Topic: TopicNumbers, Front: "What is a prime number?", Back: "A whole number greater than 1 whose only divisors are 1 and itself."},
	{ID: "fc-power-rules", Topic: TopicNumbers, Front: "Simplify a^m × a^n", Back: "a^(m+n)."},
	{ID: "fc-sci-notation", Topic: TopicNumbers, Front: "Write 4 500 000 in scientific notation", Back: "4.5 × 10^6."},
	{ID: "fc-expand", Topic: TopicAlgebra, Front: "Expand k(a + b)", Back: "ka + kb (distributivity)."},
	{ID: "fc-identity-1", Topic: TopicAlgebra, Front: "Expand (a + b)^2", Back: "a^2 + 2ab + b^2."},
	{ID: "fc-identity-2", Topic: TopicAlgebra, Front: "Expand (a − b)(a + b)", Back: "a^2 − b^2."},
	{ID: "fc-solve-linear", Topic: TopicAlgebra, Front: "Solve 3x + 5 = 20", Back: "3x = 15, so x = 5."},
	{ID: "fc-pythagoras", Topic: TopicGeometry, Front: "State the Pythagorean theorem", Back: "In a right triangle, a^2 + b^2 = c^2 where c is the hypotenuse."},
	{ID: "fc-thales", Topic: TopicGeometry, Front: "What does the intercept (Thales) theorem relate?", Back: "Ratios of corresponding segments cut by parallel lines on two intersecting lines."},
	{ID: "fc-circle-area", Topic: TopicGeometry, Front: "Area of a circle of radius r", Back: "πr^2."},
	{ID: "fc-triangle-angles", Topic: TopicGeometry, Front: "Sum of the interior angles of a triangle", Back: "180 degrees."},
	{ID: "fc-trig-sin", Topic: TopicGeometry, Front: "In a right triangle, sin of an angle equals...", Back: "Opposite side divided by hypotenuse."},
	{ID: "fc-linear-fn", Topic: TopicFunctions, Front: "What is the graph of f(x) = ax?", Back: "A straight line through the origin with slope a."},
	{ID: "fc-affine-fn", Topic: TopicFunctions, Front: "What is the graph of f(x) = ax + b?", Back: "A straight line with slope a and y-intercept b."},
	{ID: "fc-image", Topic: TopicFunctions, Front: "For f(x) = 2x + 1, what is the image of 3?", Back: "f(3) = 7."},
	{ID: "fc-mean", Topic: TopicData, Front: "How do you compute the mean of a data set?", Back: "Sum all values and divide by how many there are."},
	{ID: "fc-median", Topic: TopicData, Front: "What is the median of a data set?", Back: "The middle value once the data is sorted (mean of the two middle values if even count)."},
	{ID: "fc-probability", Topic: TopicData, Front: "Probability of an event in an equiprobable setting", Back: "Favorable outcomes divided by total outcomes."},
	{ID: "fc-percent", Topic: TopicData, Front: "How do you take 30% of a quantity?", Back: "Multiply it by 0.30."},
}

// FlashcardByID returns the card with the given id, or nil if the id is not
// in the catalog (stale persisted progress may reference removed cards).
func FlashcardByID(id string) *Flashcard {
	for i := range Flashcards {
		if Flashcards[i].ID == id {
			return &Flashcards[i]
		}
	}
	return nil
}

// FlashcardsByTopic returns the catalog filtered by topic. An empty topic
// returns the full catalog.
func FlashcardsByTopic(topic string) []Flashcard {
	if topic == "" {
		return Flashcards
	}
	var cards []Flashcard
	for _, c := range Flashcards {
		if c.Topic == topic {
			cards = append(cards, c)
		}
	}
	return cards
}
