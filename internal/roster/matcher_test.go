package roster

import "testing"

func testData() Data {
	return Data{
		Members: map[string]string{
			"Jan Kowalski":    "Koalicja Obywatelska",
			"Anna Nowak-Zych": "Lewica",
		},
	}
}

func TestFindClubExactMatch(t *testing.T) {
	m := NewMatcher(testData(), 0)
	club, ok := m.FindClub("Poseł Jan Kowalski")
	if !ok || club != "Koalicja Obywatelska" {
		t.Fatalf("got %q %v", club, ok)
	}
}

func TestFindClubFuzzyMatch(t *testing.T) {
	m := NewMatcher(testData(), 0)
	club, ok := m.FindClub("Poseł Jan Kowalsk") // one char short
	if !ok || club != "Koalicja Obywatelska" {
		t.Fatalf("expected fuzzy match, got %q %v", club, ok)
	}
}

func TestFindClubNoMatch(t *testing.T) {
	m := NewMatcher(testData(), 0)
	_, ok := m.FindClub("Zupełnie Inna Osoba")
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestAddMissingInvalidatesCache(t *testing.T) {
	m := NewMatcher(testData(), 0)
	if _, ok := m.FindClub("Marek Wiśniewski"); ok {
		t.Fatalf("expected no match before AddMissing")
	}
	m.AddMissing("Marek Wiśniewski", "Konfederacja")
	club, ok := m.FindClub("Marek Wiśniewski")
	if !ok || club != "Konfederacja" {
		t.Fatalf("expected AddMissing to be reflected, got %q %v", club, ok)
	}
}

func TestExtractNameFromSpeakerStripsTitleAndParens(t *testing.T) {
	got := extractNameFromSpeaker("Minister Jan Kowalski (stary klub)")
	if got != "Jan Kowalski" {
		t.Fatalf("got %q", got)
	}
}
