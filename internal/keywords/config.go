// Package keywords implements the weighted keyword scorer: compiled-once
// matching over utterance text, an exclude-keyword penalty,
// humor-category classification, and the confidence formula. Default
// keyword data is embedded and overridable by an external JSON file.
package keywords

// Config holds the three-way keyword data: weighted funny keywords, an
// exclude list, and per-category keyword groups.
type Config struct {
	FunnyKeywords         map[string]int
	ExcludeKeywords       map[string]struct{}
	HumorCategoryKeywords map[string][]string
}

// categoryOrder fixes the category order used for tie-breaking in
// CategoryFor.
var categoryOrder = []string{"joke", "sarcasm", "personal_attack", "chaos", "other"}

// DefaultConfig returns the embedded keyword data.
func DefaultConfig() Config {
	exclude := map[string]struct{}{}
	for _, kw := range []string{
		"spis", "treści", "porządek", "dzienny", "punkt", "ustawa", "projekt",
		"sprawozdanie", "stenograficzne", "posiedzenie", "kadencja", "strona",
		"warszawa", "dnia", "roku", "załącznik", "aneks",
		"pierwszy", "drugi", "trzeci", "czwarty", "piąty", "szósty",
		"siódmy", "ósmy", "dziewiąty", "dziesiąty",
		"art", "artykuł", "ustęp", "litera", "tiret",
		"procedura", "wniosek", "poprawka", "komisja", "podkomisja",
		"głosowanie", "protokół", "zaproszenie", "zawiadomienie",
		"styczeń", "luty", "marzec", "kwiecień", "maj", "czerwiec",
		"lipiec", "sierpień", "wrzesień", "październik", "listopad", "grudzień",
		"poniedziałek", "wtorek", "środa", "czwartek", "piątek", "sobota", "niedziela",
		"konstytucja", "kodeks", "rozporządzenie", "obwieszczenie",
		"dziennik", "ustaw", "monitor", "polski",
		"oklaski", "brawa", "aplauz", "dzwonek", "gwizdy", "buczenie", "wrzawa", "tumult",
	} {
		exclude[kw] = struct{}{}
	}

	return Config{
		FunnyKeywords: map[string]int{
			"śmiech": 4, "haha": 4, "hihi": 4, "lol": 4,
			"śmieszny": 4, "rozbawienie": 4,
			"żart": 4, "żartuje": 4, "żarcik": 4,
			"komiczny": 4, "humorystyczny": 4, "dowcip": 4, "gag": 4,
			"cyrk": 4, "farsa": 4, "kabaret": 4, "opera mydlana": 4,
			"bzdura": 4, "nonsens": 4, "brednie": 4, "absurd": 4,
			"gafa": 4, "wpadka": 4, "lapsus": 4, "autokompromitacja": 4,

			"absurdalny": 3, "niedorzeczny": 3, "groteskowy": 3,
			"skandaliczny": 3, "niewiarygodny": 3, "szokujący": 3,
			"zabawny": 3, "rozśmieszać": 3, "ubaw": 3, "śmieszyć": 3,
			"teatr": 3, "spektakl": 3, "przedstawienie": 3, "szopka": 3,
			"parodia": 3, "kpina": 3, "drwina": 3, "ironia": 3,
			"groteska": 3, "skecz": 3,
			"gwizdy": 3, "buczenie": 3, "wrzawa": 3, "tumult": 3,

			"chaos": 2, "zamieszanie": 2, "bałagan": 2, "awantura": 2,
			"nieporozumienie": 2, "pomyłka": 2, "błąd": 2, "omyłka": 2,
			"ironiczny": 2, "sarkastyczny": 2, "sarkazm": 2, "kpić": 2, "kpiarski": 2,
			"dziwny": 2, "osobliwy": 2, "niezwykły": 2, "nietypowy": 2,
			"komentarze z sali": 2, "docinki": 2, "śmiesznostka": 2,

			"ciekawy": 1, "interesujący": 1, "zaskakujący": 1,
			"naprawdę": 1, "serio": 1, "poważnie": 1, "tak sobie": 1,
			"show": 1, "występ": 1, "reality": 1,
			"reakcja": 1, "odzew": 1, "odpowiedź": 1,
			"efektowny": 1, "dziwactwo": 1,
		},
		ExcludeKeywords: exclude,
		HumorCategoryKeywords: map[string][]string{
			"joke": {"żart", "żartuje", "żarcik", "haha", "hihi", "śmiech", "dowcip", "gag",
				"komiczny", "humorystyczny", "zabawny", "rozbawienie", "śmieszny"},
			"sarcasm": {"ironiczny", "sarkastyczny", "sarkazm", "kpić", "kpina", "drwina",
				"ironia", "kpiarski", "docinki"},
			"personal_attack": {"kabaret", "cyrk", "farsa", "kpina", "spektakl", "teatr",
				"szopka", "parodia"},
			"chaos": {"gwizdy", "buczenie", "wrzawa", "tumult", "chaos", "zamieszanie",
				"bałagan", "awantura"},
		},
	}
}

// stenogramMarkers are the fixed parenthetical annotations stripped
// before scoring.
var stenogramMarkers = []string{
	"oklaski", "brawa", "aplauz", "śmiech", "gwizdy", "buczenie", "wrzawa", "tumult", "dzwonek",
}

// Weight returns the configured weight for a keyword, or 0 if unknown.
func (c Config) Weight(keyword string) int {
	return c.FunnyKeywords[keyword]
}

// Weight reports the weight the Scorer's config assigns to keyword.
func (s *Scorer) Weight(keyword string) int {
	return s.cfg.Weight(keyword)
}
