package transcript

import "testing"

type stubClubs map[string]string

func (s stubClubs) FindClub(name string) (string, bool) {
	club, ok := s[name]
	return club, ok
}

func TestParseBasicSpeakerWithClub(t *testing.T) {
	text := "Poseł Jan Kowalski (KO): To jest pierwsza wypowiedź posła.\n" +
		"Kontynuacja tej samej wypowiedzi w kolejnej linii.\n" +
		"Poseł Anna Nowak (PiS): Druga wypowiedź, zupełnie inna treść.\n"

	p := NewParser(nil)
	result := p.Parse(text, "test.txt")

	if len(result.Utterances) != 2 {
		t.Fatalf("expected 2 utterances, got %d: %+v", len(result.Utterances), result.Utterances)
	}
	if result.Utterances[0].Speaker.Name != "Jan Kowalski" || result.Utterances[0].Speaker.Club != "KO" {
		t.Fatalf("unexpected speaker: %+v", result.Utterances[0].Speaker)
	}
	if result.Utterances[1].Speaker.Name != "Anna Nowak" || result.Utterances[1].Speaker.Club != "PiS" {
		t.Fatalf("unexpected speaker: %+v", result.Utterances[1].Speaker)
	}
}

func TestParseSkipsProtocolLines(t *testing.T) {
	text := "Poseł Jan Kowalski (KO): Pierwsza dłuższa wypowiedź na sali.\n" +
		"(Głosy z sali: hałas)\n" +
		"Przerwa\n" +
		"Dalszy ciąg tej samej wypowiedzi po przerwie w obradach.\n"

	p := NewParser(nil)
	result := p.Parse(text, "")
	if len(result.Utterances) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(result.Utterances))
	}
	if result.Stats.SkippedProtocolElements == 0 {
		t.Fatalf("expected at least one skipped protocol element")
	}
}

func TestParseDropsShortUtterances(t *testing.T) {
	text := "Poseł Jan Kowalski (KO): Krótko.\n" +
		"Poseł Anna Nowak (PiS): To jest wystarczająco długa wypowiedź dla testu.\n"

	p := NewParser(nil)
	result := p.Parse(text, "")
	if len(result.Utterances) != 1 {
		t.Fatalf("expected the <3-word utterance to be dropped, got %d", len(result.Utterances))
	}
}

func TestParseUsesClubFinderOverride(t *testing.T) {
	clubs := stubClubs{"Jan Kowalski": "Nowa-Lewica"}
	text := "Jan Kowalski: Wypowiedź bez podanego klubu wprost w tekście mówcy.\n"

	p := NewParser(clubs)
	result := p.Parse(text, "")
	if len(result.Utterances) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(result.Utterances))
	}
	if result.Utterances[0].Speaker.Club != "Nowa-Lewica" {
		t.Fatalf("expected club finder override, got %q", result.Utterances[0].Speaker.Club)
	}
}

func TestExtractSittingInfo(t *testing.T) {
	text := "SEJM RZECZYPOSPOLITEJ POLSKIEJ\nKadencja X\n15. posiedzenie w dniu 3 marca 2024\n"
	info := extractSittingInfo(text)
	if info.Sejm != "Sejm RP" || info.Kadencja != "Kadencja X" || info.Posiedzenie != "15. posiedzenie" {
		t.Fatalf("unexpected sitting info: %+v", info)
	}
}

func TestFixHyphenatedWordsJoinsLineWrap(t *testing.T) {
	got := fixHyphenatedWords("parla-\nment")
	if got != "parlament" {
		t.Fatalf("expected hyphen-wrapped word joined, got %q", got)
	}
}

func TestFixHyphenatedWordsPreservesAllowListed(t *testing.T) {
	got := fixHyphenatedWords("ex-minister")
	if got != "ex-minister" {
		t.Fatalf("expected allow-listed hyphen preserved, got %q", got)
	}
}
