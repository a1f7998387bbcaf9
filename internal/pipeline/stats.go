package pipeline

// Stats accumulates per-component counters across one Run.
type Stats struct {
	SittingsSeen       int
	SittingsSkipped    int
	SittingsFresh      int
	DaysProcessed      int
	StatementsFetched  int
	StatementsWithText int
	TranscriptsWritten int
	UtterancesParsed   int
	KeywordMatches     int
	FragmentsBuilt     int
	FragmentsEvaluated int
	FragmentsFunny     int
	EvaluationErrors   int
}

// addFragments adds n built fragments to s.FragmentsBuilt.
func (s *Stats) addFragments(n int) {
	s.FragmentsBuilt += n
}
