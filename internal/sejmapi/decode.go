package sejmapi

import (
	"time"

	"github.com/sejmbot-go/detektor/internal/model"
)

// The decode* helpers convert a loosely-typed JSON object (map[string]any,
// as produced by encoding/json's interface{} decode) into the package's
// model types. Unknown or missing fields degrade to zero values rather
// than erroring; upstream schema drift must never abort a run.

func decodeTerm(v any) (model.Term, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Term{}, false
	}
	t := model.Term{
		Num:     intField(obj, "num"),
		Current: boolField(obj, "current"),
	}
	if d, ok := dateField(obj, "from"); ok {
		t.From = &d
	}
	if d, ok := dateField(obj, "to"); ok {
		t.To = &d
	}
	return t, true
}

func decodeSitting(v any, term int) (model.Sitting, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Sitting{}, false
	}
	s := model.Sitting{
		Term:    term,
		Number:  intField(obj, "number"),
		Title:   strField(obj, "title"),
		Current: boolField(obj, "current"),
	}
	if arr, ok := obj["dates"].([]any); ok {
		for _, d := range arr {
			if ds, ok := d.(string); ok {
				s.Dates = append(s.Dates, ds)
			}
		}
	}
	return s, true
}

func decodeStatement(v any) (model.Statement, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Statement{}, false
	}
	st := model.Statement{
		Num:         intField(obj, "num"),
		SpeakerName: strField(obj, "speakerName"),
		FirstName:   strField(obj, "firstName"),
		LastName:    strField(obj, "lastName"),
		Function:    strField(obj, "function"),
		Club:        strField(obj, "club"),
	}
	if t, ok := timeField(obj, "startDateTime"); ok {
		st.StartTime = &t
	}
	if t, ok := timeField(obj, "endDateTime"); ok {
		st.EndTime = &t
	}
	if st.SpeakerName == "" {
		st.SpeakerName = strField(obj, "name")
	}
	return st, true
}

func decodeMember(v any) (model.Member, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Member{}, false
	}
	m := model.Member{
		ID:          intField(obj, "id"),
		FirstName:   strField(obj, "firstName"),
		LastName:    strField(obj, "lastName"),
		Club:        strField(obj, "club"),
		District:    strField(obj, "districtName"),
		Voivodeship: strField(obj, "voivodeship"),
		Profession:  strField(obj, "profession"),
		Email:       strField(obj, "email"),
	}
	return m, true
}

func decodeClub(v any) (model.Club, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Club{}, false
	}
	c := model.Club{
		ID:           strField(obj, "id"),
		Name:         strField(obj, "name"),
		MembersCount: intField(obj, "membersCount"),
	}
	if abbr := strField(obj, "abbreviation"); abbr != "" {
		c.Abbreviations = []string{abbr}
	}
	return c, true
}

func intField(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func strField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func dateField(obj map[string]any, key string) (time.Time, bool) {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func timeField(obj map[string]any, key string) (time.Time, bool) {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
