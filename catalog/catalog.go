// Package catalog holds the static event catalog for the current fest
// edition. The catalog is compiled in: events change once per year and
// the site is redeployed for each edition.
package catalog

import "github.com/shreshta-sdc/shreshta-server/models"

func standardRules(teamLine string) []string {
	return []string{
		teamLine,
		"College ID is mandatory",
		"Register on or before 15th February 2026",
		"Judges decision will be considered as final",
	}
}

var itEvents = []models.Event{
	{
		ID:               "logic-overload",
		Title:            "LOGIC OVERLOAD",
		Description:      "Logic, Pattern, DSA, Web & AI coding contest",
		LongDescription:  "Logic, Pattern, DSA, Web & AI coding contest. Solve complex problems and debug code to win.",
		Coordinator:      "Arshad Pasha",
		CoordinatorPhone: "7760554350",
		Category:         models.CategoryIT,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "Computer Lab",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹200/Team",
	},
	{
		ID:               "pratyaya",
		Title:            "PRATYAYA",
		Description:      "UI/UX design & creativity challenge",
		LongDescription:  "UI/UX design & creativity challenge. Showcase your design thinking and user experience skills.",
		Coordinator:      "Kruthika B",
		CoordinatorPhone: "7892826828",
		Category:         models.CategoryIT,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "Computer Lab",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹200/Team",
	},
	{
		ID:               "nidhi-anveshanam",
		Title:            "NIDHI ANVESHANAM",
		Description:      "Shadow Fight & clue-based hunt",
		LongDescription:  "Shadow Fight & clue-based hunt. Solve puzzles and find the treasure to win.",
		Coordinator:      "T L Sinchana",
		CoordinatorPhone: "9845882275",
		Category:         models.CategoryIT,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Team of 4 members"),
		TeamSize:         "4 Members",
		RegistrationFee:  "₹500/Team",
	},
	{
		ID:               "e-sports",
		Title:            "E-SPORTS",
		Description:      "Battle survival game",
		LongDescription:  "Battle survival game. Compete against other teams in an intense gaming showdown.",
		Coordinator:      "Hari Kiran",
		CoordinatorPhone: "9591047558",
		Category:         models.CategoryIT,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "IT Lab",
		Rules:            standardRules("Team of 4 members"),
		TeamSize:         "4 Members",
		RegistrationFee:  "₹500/Team",
	},
}

var managementEvents = []models.Event{
	{
		ID:               "dhurandharah",
		Title:            "DHURANDHARAH",
		Description:      "Entrepreneurship-based event focusing on creativity & decision-making",
		LongDescription:  "Entrepreneurship-based event focusing on creativity & decision-making. Test your business acumen and strategic thinking.",
		Coordinator:      "Priya M R",
		CoordinatorPhone: "9972672012",
		Category:         models.CategoryManagement,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹300/Team",
	},
	{
		ID:               "samanvaya",
		Title:            "SAMANVAYA",
		Description:      "HR & people management event (teamwork, leadership, communication)",
		LongDescription:  "HR & people management event focusing on teamwork, leadership, and communication skills.",
		Coordinator:      "Ranjitha N",
		CoordinatorPhone: "6362120827",
		Category:         models.CategoryManagement,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹300/Team",
	},
	{
		ID:               "arthasangram",
		Title:            "ARTHASANGRAM",
		Description:      "Finance & strategy competition",
		LongDescription:  "Finance & strategy competition testing your ability to manage resources and make smart financial decisions.",
		Coordinator:      "Prajwal S",
		CoordinatorPhone: "9343537050",
		Category:         models.CategoryManagement,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹300/Team",
	},
	{
		ID:               "vikraya",
		Title:            "VIKRAYA",
		Description:      "Marketing & business acumen event",
		LongDescription:  "Marketing & business acumen event. Showcase your innovative marketing ideas and strategy.",
		Coordinator:      "Adheena Jojo",
		CoordinatorPhone: "9902630615",
		Category:         models.CategoryManagement,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Team of 2 members"),
		TeamSize:         "2 Members",
		RegistrationFee:  "₹300/Team",
	},
}

var culturalEvents = []models.Event{
	{
		ID:               "lasyagathi",
		Title:            "LASYAGATHI",
		Description:      "Fashion ramp walk event",
		LongDescription:  "Fashion ramp walk event. Walk the ramp with style and confidence.",
		Coordinator:      "Poornima M",
		CoordinatorPhone: "8217787905",
		Category:         models.CategoryCultural,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "Main Stage",
		Rules:            standardRules("Team participation"),
		TeamSize:         "Team",
		RegistrationFee:  "₹900/Team",
	},
	{
		ID:               "lasya-tandava",
		Title:            "LASYA TANDAVA",
		Description:      "Solo freestyle dance",
		LongDescription:  "Solo freestyle dance. Express yourself through dance.",
		Coordinator:      "Aishwarya",
		CoordinatorPhone: "7892984853",
		Category:         models.CategoryCultural,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "Main Stage",
		Rules:            standardRules("Individual participation"),
		TeamSize:         "1 Person",
		RegistrationFee:  "₹200/Person",
	},
	{
		ID:               "swara-madurya",
		Title:            "SWARA MADURYA",
		Description:      "Solo & group singing competition",
		LongDescription:  "Solo & group singing competition. Showcase your vocal talents.",
		Coordinator:      "Poorvi H",
		CoordinatorPhone: "9380327667",
		Category:         models.CategoryCultural,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "Open Air Theatre",
		Rules:            standardRules("Solo or Group participation"),
		TeamSize:         "Solo/Group",
		RegistrationFee:  "Solo: ₹150 | Group: ₹400",
	},
	{
		ID:               "drushyavahini",
		Title:            "DRUSHYAVAHINI",
		Description:      "Videography & storytelling challenge",
		LongDescription:  "Videography & storytelling challenge. Capture moments and tell stories through your lens.",
		Coordinator:      "Kowshik",
		CoordinatorPhone: "7259607095",
		Category:         models.CategoryCultural,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "SDC Campus",
		Rules:            standardRules("Individual participation"),
		TeamSize:         "1 Person",
		RegistrationFee:  "₹200",
	},
}

var sportsEvents = []models.Event{
	{
		ID:               "dandashataka",
		Title:            "DANDASHATAKA",
		Description:      "30-meter yards cricket",
		LongDescription:  "30-meter yards cricket. Fast-paced cricket action.",
		Coordinator:      "Puneeth S",
		CoordinatorPhone: "7676380741",
		Category:         models.CategorySports,
		Date:             "Feb 17, 2026",
		Time:             "8:30 AM",
		Venue:            "College Ground",
		Rules:            standardRules("Team of 8 + 2 players"),
		TeamSize:         "8 + 2 Players",
		RegistrationFee:  "₹1000/Team",
	},
}

var allEvents = concat(itEvents, managementEvents, culturalEvents, sportsEvents)

var eventsByID = func() map[string]*models.Event {
	m := make(map[string]*models.Event, len(allEvents))
	for i := range allEvents {
		m[allEvents[i].ID] = &allEvents[i]
	}
	return m
}()

func concat(groups ...[]models.Event) []models.Event {
	var out []models.Event
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// All returns every event in catalog order (it, management, cultural,
// sports).
func All() []models.Event {
	out := make([]models.Event, len(allEvents))
	copy(out, allEvents)
	return out
}

// ByID looks up a single event. The second return is false for
// unknown IDs.
func ByID(id string) (*models.Event, bool) {
	e, ok := eventsByID[id]
	return e, ok
}

// ByCategory returns all events in the given category.
func ByCategory(category string) []models.Event {
	var out []models.Event
	for _, e := range allEvents {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// IDs returns every event ID. The admin dashboard iterates these to
// read each event's teams subcollection.
func IDs() []string {
	ids := make([]string, len(allEvents))
	for i := range allEvents {
		ids[i] = allEvents[i].ID
	}
	return ids
}
