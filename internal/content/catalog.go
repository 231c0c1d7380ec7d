package content

import "strings"

// Lesson is one unit of course material
type Lesson struct {
	ID      string
	Topic   string
	Title   string
	Summary string
}

// Exercise is a single graded practice problem
type Exercise struct {
	ID       string
	Topic    string
	Prompt   string
	Answer   string
	Difficulty int
}

// Quiz is a short multiple-question check attached to a topic
type Quiz struct {
	ID        string
	Topic     string
	Title     string
	Questions int
}

// ExamPaper is a past-exam mock paper with a time budget
type ExamPaper struct {
	ID              string
	Title           string
	Year            int
	DurationMinutes int
	MaxScore        int
}

var Lessons = []Lesson{
	{ID: "ls-fractions", Topic: TopicNumbers, Title: "Operations on fractions", Summary: "Adding, subtracting, multiplying and dividing fractions."},
	{ID: "ls-relative-numbers", Topic: TopicNumbers, Title: "Relative numbers", Summary: "Sign rules for sums and products of relative numbers."},
	{ID: "ls-powers", Topic: TopicNumbers, Title: "Powers and scientific notation", Summary: "Exponent rules and writing large numbers."},
	{ID: "ls-literal-calc", Topic: TopicAlgebra, Title: "Literal calculation", Summary: "Expanding, factoring and remarkable identities."},
	{ID: "ls-equations", Topic: TopicAlgebra, Title: "First-degree equations", Summary: "Solving linear equations step by step."},
	{ID: "ls-pythagoras", Topic: TopicGeometry, Title: "The Pythagorean theorem", Summary: "Computing lengths in right triangles."},
	{ID: "ls-thales", Topic: TopicGeometry, Title: "The Thales theorem", Summary: "Proportionality in triangles cut by parallels."},
	{ID: "ls-trigonometry", Topic: TopicGeometry, Title: "Trigonometry in right triangles", Summary: "Sine, cosine and tangent."},
	{ID: "ls-linear-functions", Topic: TopicFunctions, Title: "Linear and affine functions", Summary: "Images, graphs, slope and intercept."},
	{ID: "ls-statistics", Topic: TopicData, Title: "Statistics", Summary: "Mean, median, range and frequency."},
	{ID: "ls-probability", Topic: TopicData, Title: "Probability", Summary: "Simple and compound random experiments."},
}

var Exercises = []Exercise{
	{ID: "ex-frac-1", Topic: TopicNumbers, Prompt: "Compute 1/3 + 1/6", Answer: "1/2", Difficulty: 1},
	{ID: "ex-frac-2", Topic: TopicNumbers, Prompt: "Compute (2/5) ÷ (3/4)", Answer: "8/15", Difficulty: 2},
	{ID: "ex-rel-1", Topic: TopicNumbers, Prompt: "Compute (−3) × (−7)", Answer: "21", Difficulty: 1},
	{ID: "ex-pow-1", Topic: TopicNumbers, Prompt: "Simplify 2^3 × 2^4", Answer: "2^7", Difficulty: 2},
	{ID: "ex-lit-1", Topic: TopicAlgebra, Prompt: "Expand (x + 3)^2", Answer: "x^2 + 6x + 9", Difficulty: 2},
	{ID: "ex-lit-2", Topic: TopicAlgebra, Prompt: "Factor x^2 − 25", Answer: "(x − 5)(x + 5)", Difficulty: 3},
	{ID: "ex-eq-1", Topic: TopicAlgebra, Prompt: "Solve 5x − 7 = 18", Answer: "x = 5", Difficulty: 2},
	{ID: "ex-pyth-1", Topic: TopicGeometry, Prompt: "A right triangle has legs 3 and 4. Find the hypotenuse.", Answer: "5", Difficulty: 1},
	{ID: "ex-pyth-2", Topic: TopicGeometry, Prompt: "A right triangle has hypotenuse 13 and one leg 5. Find the other leg.", Answer: "12", Difficulty: 2},
	{ID: "ex-thales-1", Topic: TopicGeometry, Prompt: "With (MN) parallel to (BC), AM=2, AB=6, AN=3. Find AC.", Answer: "9", Difficulty: 3},
	{ID: "ex-fn-1", Topic: TopicFunctions, Prompt: "For f(x) = 3x − 2, compute f(4)", Answer: "10", Difficulty: 1},
	{ID: "ex-stat-1", Topic: TopicData, Prompt: "Find the mean of 4, 8, 9, 15", Answer: "9", Difficulty: 1},
	{ID: "ex-prob-1", Topic: TopicData, Prompt: "A die is rolled. What is the probability of an even number?", Answer: "1/2", Difficulty: 1},
}

var Quizzes = []Quiz{
	{ID: "qz-numbers", Topic: TopicNumbers, Title: "Numbers check", Questions: 5},
	{ID: "qz-algebra", Topic: TopicAlgebra, Title: "Algebra check", Questions: 5},
	{ID: "qz-geometry", Topic: TopicGeometry, Title: "Geometry check", Questions: 5},
	{ID: "qz-functions", Topic: TopicFunctions, Title: "Functions check", Questions: 4},
	{ID: "qz-data", Topic: TopicData, Title: "Statistics and probability check", Questions: 4},
}

var ExamPapers = []ExamPaper{
	{ID: "exam-2022", Title: "Mock exam — 2022 paper", Year: 2022, DurationMinutes: 120, MaxScore: 100},
	{ID: "exam-2023", Title: "Mock exam — 2023 paper", Year: 2023, DurationMinutes: 120, MaxScore: 100},
	{ID: "exam-2024", Title: "Mock exam — 2024 paper", Year: 2024, DurationMinutes: 120, MaxScore: 100},
}

// LessonByID returns the lesson with the given id, or nil
func LessonByID(id string) *Lesson {
	for i := range Lessons {
		if Lessons[i].ID == id {
			return &Lessons[i]
		}
	}
	return nil
}

// ExerciseByID returns the exercise with the given id, or nil
func ExerciseByID(id string) *Exercise {
	for i := range Exercises {
		if Exercises[i].ID == id {
			return &Exercises[i]
		}
	}
	return nil
}

// QuizByID returns the quiz with the given id, or nil
func QuizByID(id string) *Quiz {
	for i := range Quizzes {
		if Quizzes[i].ID == id {
			return &Quizzes[i]
		}
	}
	return nil
}

// ExamPaperByID returns the exam paper with the given id, or nil
func ExamPaperByID(id string) *ExamPaper {
	for i := range ExamPapers {
		if ExamPapers[i].ID == id {
			return &ExamPapers[i]
		}
	}
	return nil
}

// AnswersMatch compares a submitted answer against the expected one,
// ignoring case and internal whitespace
func AnswersMatch(submitted, expected string) bool {
	return normalizeAnswer(submitted) == normalizeAnswer(expected)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
