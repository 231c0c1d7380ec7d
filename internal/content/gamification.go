package content

// BadgeType selects the predicate used when re-evaluating a badge
type BadgeType string

const (
	BadgeTypeLessons   BadgeType = "lessons"
	BadgeTypeExercises BadgeType = "exercises"
	BadgeTypeQuizzes   BadgeType = "quizzes"
	BadgeTypeStreak    BadgeType = "streak"
	BadgeTypePoints    BadgeType = "points"
	// BadgeTypeSpecial badges have no automatic predicate; they are granted
	// explicitly, e.g. by a side quest claim.
	BadgeTypeSpecial BadgeType = "special"
)

// Badge is a static badge definition. Unlocks are recorded per learner and
// never revoked.
type Badge struct {
	ID          string
	Name        string
	Description string
	Type        BadgeType
	Threshold   int
}

// Badges is the static badge catalog. IDs must stay stable because unlocked
// badges are persisted by id.
var Badges = []Badge{
	{ID: "first-lesson", Name: "First Steps", Description: "Complete your first lesson", Type: BadgeTypeLessons, Threshold: 1},
	{ID: "bookworm", Name: "Bookworm", Description: "Complete 10 lessons", Type: BadgeTypeLessons, Threshold: 10},
	{ID: "problem-solver", Name: "Problem Solver", Description: "Complete 25 exercises", Type: BadgeTypeExercises, Threshold: 25},
	{ID: "exercise-machine", Name: "Exercise Machine", Description: "Complete 100 exercises", Type: BadgeTypeExercises, Threshold: 100},
	{ID: "quiz-rookie", Name: "Quiz Rookie", Description: "Complete 5 quizzes", Type: BadgeTypeQuizzes, Threshold: 5},
	{ID: "quiz-master", Name: "Quiz Master", Description: "Complete 25 quizzes", Type: BadgeTypeQuizzes, Threshold: 25},
	{ID: "week-warrior", Name: "Week Warrior", Description: "Keep a 7-day streak", Type: BadgeTypeStreak, Threshold: 7},
	{ID: "monthly-master", Name: "Monthly Master", Description: "Keep a 30-day streak", Type: BadgeTypeStreak, Threshold: 30},
	{ID: "point-collector", Name: "Point Collector", Description: "Earn 1000 points", Type: BadgeTypePoints, Threshold: 1000},
	{ID: "point-hoarder", Name: "Point Hoarder", Description: "Earn 5000 points", Type: BadgeTypePoints, Threshold: 5000},
	{ID: "pythagore", Name: "Heir of Pythagoras", Description: "Master the geometry of right triangles", Type: BadgeTypeSpecial},
	{ID: "thales", Name: "Heir of Thales", Description: "Master proportionality in triangles", Type: BadgeTypeSpecial},
}

// BadgeByID returns the badge definition with the given id, or nil
func BadgeByID(id string) *Badge {
	for i := range Badges {
		if Badges[i].ID == id {
			return &Badges[i]
		}
	}
	return nil
}

// LevelTitles is the ordered list of level names. Levels beyond the list
// keep the last title.
var LevelTitles = []string{
	"Apprentice",     // level 1
	"Calculator",     // level 2
	"Arithmetician",  // level 3
	"Geometer",       // level 4
	"Equation Tamer", // level 5
	"Algebraist",     // level 6
	"Theorem Hunter", // level 7
	"Math Champion",  // level 8
	"Grand Scholar",  // level 9
	"Archimedes",     // level 10+
}

// TitleForLevel returns the display title for a level, clamped to the list
func TitleForLevel(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(LevelTitles) {
		level = len(LevelTitles)
	}
	return LevelTitles[level-1]
}

// ChallengeTemplate is one entry of the shared weekly challenge pool
type ChallengeTemplate struct {
	ID     string
	Title  string
	Type   string
	Target int
	Reward int
}

// Weekly challenge types, matched against study-event deltas
const (
	ChallengeLessons        = "lessons"
	ChallengeExercises      = "exercises"
	ChallengeQuizzes        = "quizzes"
	ChallengeFlashcards     = "flashcards"
	ChallengePerfectQuizzes = "perfect_quizzes"
	ChallengeStreak         = "streak"
)

// WeeklyChallengePool is the shared pool weekly sets are drawn from
var WeeklyChallengePool = []ChallengeTemplate{
	{ID: "wc-lessons-3", Title: "Read 3 lessons this week", Type: ChallengeLessons, Target: 3, Reward: 60},
	{ID: "wc-lessons-5", Title: "Read 5 lessons this week", Type: ChallengeLessons, Target: 5, Reward: 100},
	{ID: "wc-exercises-5", Title: "Solve 5 exercises this week", Type: ChallengeExercises, Target: 5, Reward: 50},
	{ID: "wc-exercises-15", Title: "Solve 15 exercises this week", Type: ChallengeExercises, Target: 15, Reward: 120},
	{ID: "wc-quizzes-3", Title: "Finish 3 quizzes this week", Type: ChallengeQuizzes, Target: 3, Reward: 70},
	{ID: "wc-quizzes-5", Title: "Finish 5 quizzes this week", Type: ChallengeQuizzes, Target: 5, Reward: 110},
	{ID: "wc-flashcards-20", Title: "Review 20 flashcards this week", Type: ChallengeFlashcards, Target: 20, Reward: 80},
	{ID: "wc-flashcards-40", Title: "Review 40 flashcards this week", Type: ChallengeFlashcards, Target: 40, Reward: 140},
	{ID: "wc-perfect-1", Title: "Score a perfect quiz this week", Type: ChallengePerfectQuizzes, Target: 1, Reward: 90},
	{ID: "wc-perfect-2", Title: "Score 2 perfect quizzes this week", Type: ChallengePerfectQuizzes, Target: 2, Reward: 150},
}

// SideQuestDef is a permanent goal tracked against lifetime counters.
// BadgeID, when set, is granted on claim.
type SideQuestDef struct {
	ID      string
	Title   string
	Type    string
	Target  int
	Reward  int
	BadgeID string
}

// SideQuestCatalog is the fixed side quest catalog; instances persist until
// claimed and are never regenerated.
var SideQuestCatalog = []SideQuestDef{
	{ID: "sq-lessons-20", Title: "Complete 20 lessons", Type: ChallengeLessons, Target: 20, Reward: 200},
	{ID: "sq-exercises-50", Title: "Complete 50 exercises", Type: ChallengeExercises, Target: 50, Reward: 250},
	{ID: "sq-quizzes-15", Title: "Complete 15 quizzes", Type: ChallengeQuizzes, Target: 15, Reward: 200},
	{ID: "sq-perfect-5", Title: "Score 5 perfect quizzes", Type: ChallengePerfectQuizzes, Target: 5, Reward: 300},
	{ID: "sq-streak-14", Title: "Hold a 14-day streak", Type: ChallengeStreak, Target: 14, Reward: 250},
	{ID: "sq-geometry-right", Title: "Solve every right-triangle exercise", Type: ChallengeExercises, Target: 30, Reward: 300, BadgeID: "pythagore"},
	{ID: "sq-geometry-parallel", Title: "Solve every proportionality exercise", Type: ChallengeExercises, Target: 40, Reward: 300, BadgeID: "thales"},
}

// ShopItem is a companion cosmetic purchasable with spendable XP
type ShopItem struct {
	ID    string
	Name  string
	Price int
}

var ShopItems = []ShopItem{
	{ID: "hat-wizard", Name: "Wizard hat", Price: 40},
	{ID: "hat-crown", Name: "Golden crown", Price: 120},
	{ID: "glasses-round", Name: "Round glasses", Price: 30},
	{ID: "scarf-red", Name: "Red scarf", Price: 25},
	{ID: "cape-star", Name: "Starry cape", Price: 90},
	{ID: "bg-chalkboard", Name: "Chalkboard background", Price: 60},
	{ID: "bg-space", Name: "Space background", Price: 80},
}

// ShopItemByID returns the shop item with the given id, or nil
func ShopItemByID(id string) *ShopItem {
	for i := range ShopItems {
		if ShopItems[i].ID == id {
			return &ShopItems[i]
		}
	}
	return nil
}

// Perk is a companion ability unlocked by a characteristic counter reaching
// a threshold. Perks are derived, never stored.
type Perk struct {
	ID        string
	Name      string
	Stat      string
	Threshold int
}

var Perks = []Perk{
	{ID: "perk-wave", Name: "Companion waves hello", Stat: "lessons", Threshold: 5},
	{ID: "perk-dance", Name: "Victory dance", Stat: "exercises", Threshold: 20},
	{ID: "perk-juggle", Name: "Number juggling", Stat: "correct_answers", Threshold: 50},
	{ID: "perk-trophy", Name: "Trophy shelf", Stat: "perfect_quizzes", Threshold: 3},
	{ID: "perk-fireworks", Name: "Fireworks celebration", Stat: "quizzes", Threshold: 10},
}
