package emotion

// valueRange is a low/high pair for a musical attribute.
type valueRange struct {
	low, high float64
}

// tempoRange is a BPM range.
type tempoRange struct {
	low, high int
}

// categoryProfile holds a category's base attribute ranges, genre list,
// mood keywords and descriptive text. Callers must copy the slices before
// handing them out.
type categoryProfile struct {
	valence      valueRange
	energy       valueRange
	danceability valueRange
	acousticness valueRange
	tempo        tempoRange
	genres       []string
	keywords     []string
	description  string
}

var categoryProfiles = map[Category]categoryProfile{
	Happy: {
		valence:      valueRange{0.7, 1.0},
		energy:       valueRange{0.6, 1.0},
		danceability: valueRange{0.6, 1.0},
		acousticness: valueRange{0.0, 0.4},
		tempo:        tempoRange{120, 180},
		genres:       []string{"pop", "dance", "funk", "disco", "reggae"},
		keywords:     []string{"upbeat", "joyful", "celebratory", "positive", "cheerful"},
		description:  "joyful and uplifting",
	},
	Sad: {
		valence:      valueRange{0.0, 0.3},
		energy:       valueRange{0.0, 0.4},
		danceability: valueRange{0.0, 0.4},
		acousticness: valueRange{0.4, 1.0},
		tempo:        tempoRange{60, 100},
		genres:       []string{"indie", "folk", "blues", "ballad", "ambient"},
		keywords:     []string{"melancholic", "emotional", "introspective", "healing", "comforting"},
		description:  "melancholic and reflective",
	},
	Angry: {
		valence:      valueRange{0.0, 0.4},
		energy:       valueRange{0.7, 1.0},
		danceability: valueRange{0.3, 0.8},
		acousticness: valueRange{0.0, 0.3},
		tempo:        tempoRange{140, 200},
		genres:       []string{"rock", "metal", "punk", "rap", "electronic"},
		keywords:     []string{"intense", "aggressive", "powerful", "cathartic", "rebellious"},
		description:  "intense and cathartic",
	},
	Calm: {
		valence:      valueRange{0.4, 0.8},
		energy:       valueRange{0.0, 0.3},
		danceability: valueRange{0.0, 0.3},
		acousticness: valueRange{0.6, 1.0},
		tempo:        tempoRange{60, 90},
		genres:       []string{"ambient", "chill", "jazz", "classical", "new age"},
		keywords:     []string{"peaceful", "relaxing", "serene", "meditative", "tranquil"},
		description:  "peaceful and relaxing",
	},
	Energetic: {
		valence:      valueRange{0.6, 1.0},
		energy:       valueRange{0.8, 1.0},
		danceability: valueRange{0.7, 1.0},
		acousticness: valueRange{0.0, 0.3},
		tempo:        tempoRange{130, 180},
		genres:       []string{"electronic", "pop", "dance", "rock", "hip-hop"},
		keywords:     []string{"pumped", "motivating", "dynamic", "exciting", "adrenaline"},
		description:  "dynamic and motivating",
	},
	Romantic: {
		valence:      valueRange{0.6, 0.9},
		energy:       valueRange{0.2, 0.6},
		danceability: valueRange{0.3, 0.8},
		acousticness: valueRange{0.3, 0.8},
		tempo:        tempoRange{80, 120},
		genres:       []string{"r&b", "pop", "jazz", "soul", "ballad"},
		keywords:     []string{"romantic", "intimate", "passionate", "sensual", "loving"},
		description:  "passionate and intimate",
	},
	Nostalgic: {
		valence:      valueRange{0.3, 0.7},
		energy:       valueRange{0.2, 0.5},
		danceability: valueRange{0.2, 0.6},
		acousticness: valueRange{0.4, 0.9},
		tempo:        tempoRange{70, 110},
		genres:       []string{"indie", "folk", "classic rock", "jazz", "blues"},
		keywords:     []string{"nostalgic", "retro", "vintage", "memories", "timeless"},
		description:  "nostalgic and timeless",
	},
	Anxious: {
		valence:      valueRange{0.2, 0.5},
		energy:       valueRange{0.4, 0.8},
		danceability: valueRange{0.1, 0.5},
		acousticness: valueRange{0.2, 0.7},
		tempo:        tempoRange{100, 140},
		genres:       []string{"ambient", "experimental", "indie", "alternative"},
		keywords:     []string{"soothing", "grounding", "centering", "mindful", "calming"},
		description:  "contemplative and grounding",
	},
	Focused: {
		valence:      valueRange{0.4, 0.7},
		energy:       valueRange{0.3, 0.6},
		danceability: valueRange{0.0, 0.4},
		acousticness: valueRange{0.3, 0.9},
		tempo:        tempoRange{60, 100},
		genres:       []string{"ambient", "instrumental", "classical", "lo-fi", "jazz"},
		keywords:     []string{"concentrated", "productive", "mindful", "flow", "focused"},
		description:  "concentrated and productive",
	},
	Neutral: {
		valence:      valueRange{0.4, 0.6},
		energy:       valueRange{0.3, 0.6},
		danceability: valueRange{0.3, 0.6},
		acousticness: valueRange{0.2, 0.7},
		tempo:        tempoRange{80, 120},
		genres:       []string{"pop", "indie", "alternative", "jazz"},
		keywords:     []string{"balanced", "neutral", "versatile", "moderate", "steady"},
		description:  "balanced and versatile",
	},
}

// labelAliases maps free-form emotion labels to categories.
var labelAliases = map[string]Category{
	"happy":        Happy,
	"sad":          Sad,
	"angry":        Angry,
	"calm":         Calm,
	"energetic":    Energetic,
	"romantic":     Romantic,
	"nostalgic":    Nostalgic,
	"anxious":      Anxious,
	"focused":      Focused,
	"neutral":      Neutral,
	"joyful":       Happy,
	"excited":      Energetic,
	"relaxed":      Calm,
	"peaceful":     Calm,
	"depressed":    Sad,
	"melancholic":  Sad,
	"furious":      Angry,
	"irritated":    Angry,
	"passionate":   Romantic,
	"worried":      Anxious,
	"concentrated": Focused,
}

// secondaryAssociations lists the emotions associated with each category at
// full intensity.
var secondaryAssociations = map[Category][]Secondary{
	Happy:     {{Energetic, 0.6}, {Romantic, 0.3}},
	Sad:       {{Nostalgic, 0.7}, {Calm, 0.4}},
	Angry:     {{Energetic, 0.8}, {Sad, 0.2}},
	Calm:      {{Focused, 0.6}, {Romantic, 0.3}},
	Energetic: {{Happy, 0.7}, {Angry, 0.2}},
	Romantic:  {{Happy, 0.5}, {Calm, 0.6}},
	Nostalgic: {{Sad, 0.8}, {Calm, 0.5}},
	Anxious:   {{Sad, 0.4}, {Energetic, 0.3}},
	Focused:   {{Calm, 0.7}, {Energetic, 0.3}},
	Neutral:   {{Calm, 0.4}, {Happy, 0.3}},
}

// contextModifier adjusts energy multiplicatively and valence additively.
type contextModifier struct {
	energyMult   float64
	valenceBoost float64
}

var contextModifiers = map[string]contextModifier{
	"morning":   {0.8, 0.1},
	"afternoon": {1.0, 0.0},
	"evening":   {0.9, -0.05},
	"night":     {0.7, -0.1},
	"workout":   {1.3, 0.15},
	"study":     {0.6, 0.0},
	"party":     {1.4, 0.2},
	"commute":   {0.9, 0.05},
}
