package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Rank is a dataset rank. It decodes from a JSON number or a numeric string;
// anything else decodes to 0.
type Rank int

func (r *Rank) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			*r = 0
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	*r = Rank(parseLeadingInt(s))
	return nil
}

// parseLeadingInt reads an optional sign and the leading digits of s, the way
// a lenient integer parse does. "12th" is 12, "abc" is 0, "3.9" is 3.
func parseLeadingInt(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0
	}
	return n
}

// lenientFloat decodes a JSON number or numeric string ("12", "27%").
// null, NaN, infinities and anything else are missing.
func lenientFloat(data json.RawMessage) *float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil
		}
		s = strings.TrimSuffix(strings.TrimSpace(unquoted), "%")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// lenientString drops values that are not JSON strings.
func lenientString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

type RawRanking struct {
	System string   `json:"system"`
	Value  *float64 `json:"value"`
}

// UnmarshalJSON never fails: a value of the wrong shape decodes as missing.
func (r *RawRanking) UnmarshalJSON(data []byte) error {
	*r = RawRanking{}
	var aux struct {
		System json.RawMessage `json:"system"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	r.System = lenientString(aux.System)
	r.Value = lenientFloat(aux.Value)
	return nil
}

type RawAcceptanceRate struct {
	Value     *float64 `json:"value"`
	Estimated bool     `json:"estimated"`
}

func (r *RawAcceptanceRate) UnmarshalJSON(data []byte) error {
	*r = RawAcceptanceRate{}
	var aux struct {
		Value     json.RawMessage `json:"value"`
		Estimated json.RawMessage `json:"estimated"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	r.Value = lenientFloat(aux.Value)
	_ = json.Unmarshal(aux.Estimated, &r.Estimated)
	return nil
}

type Scholarship struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	URL    string `json:"url,omitempty"`
}

// RawUniversity is one entry of the dataset document, as authored.
type RawUniversity struct {
	Rank               Rank              `json:"rank"`
	Name               string            `json:"name"`
	CityCountry        string            `json:"cityCountry"`
	Ranking            RawRanking        `json:"ranking"`
	Programs           []string          `json:"programs"`
	ProgramStart       string            `json:"programStart"`
	AppDeadline        string            `json:"appDeadline"`
	AcceptanceRate     RawAcceptanceRate `json:"acceptanceRate"`
	AcceptanceCriteria string            `json:"acceptanceCriteria"`
	Scholarships       []Scholarship     `json:"scholarships"`
	Contact            string            `json:"contact"`
	Website            string            `json:"website"`
	Image              string            `json:"image,omitempty"`
	Citations          []string          `json:"citations,omitempty"`
}

// Dataset is the static document loaded once at startup.
type Dataset struct {
	GeneratedOn  string          `json:"generatedOn"`
	RankingNote  string          `json:"rankingNote"`
	Universities []RawUniversity `json:"universities"`
}

// Metadata is passed through unchanged for display.
type Metadata struct {
	GeneratedOn string `json:"generatedOn"`
	RankingNote string `json:"rankingNote"`
}

// UnmarshalJSON decodes records one at a time. A field of the wrong type
// is left at its zero value and the rest of the record is kept; a record that
// is not an object decodes to the zero record, which normalization drops.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var aux struct {
		GeneratedOn  json.RawMessage   `json:"generatedOn"`
		RankingNote  json.RawMessage   `json:"rankingNote"`
		Universities []json.RawMessage `json:"universities"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*d = Dataset{
		GeneratedOn:  lenientString(aux.GeneratedOn),
		RankingNote:  lenientString(aux.RankingNote),
		Universities: make([]RawUniversity, 0, len(aux.Universities)),
	}
	for _, raw := range aux.Universities {
		var u RawUniversity
		if err := json.Unmarshal(raw, &u); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				u = RawUniversity{}
			}
		}
		d.Universities = append(d.Universities, u)
	}
	return nil
}

func (d Dataset) Metadata() Metadata {
	return Metadata{GeneratedOn: d.GeneratedOn, RankingNote: d.RankingNote}
}

type Ranking struct {
	System  string   `json:"system"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// DateField keeps the raw date text next to its human-readable form.
type DateField struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

type AcceptanceRate struct {
	Value     *float64 `json:"value"`
	Estimated bool     `json:"estimated"`
	Display   string   `json:"display"`
}

// Amount is a parsed award amount. Zero fields mean unknown.
type Amount struct {
	Currency string  `json:"currency,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// ScholarshipAward is a scholarship with its amount text parsed.
type ScholarshipAward struct {
	Scholarship
	Parsed Amount `json:"parsedAmount"`
}

type Contact struct {
	Raw     string `json:"raw"`
	IsEmail bool   `json:"isEmail"`
}

// University is the canonical, normalized record. Values are never mutated
// after normalization.
type University struct {
	ID                 uuid.UUID          `json:"id"`
	Rank               int                `json:"rank"`
	Name               string             `json:"name"`
	CityCountry        string             `json:"cityCountry"`
	Country            string             `json:"country"`
	Ranking            Ranking            `json:"ranking"`
	Programs           []string           `json:"programs"`
	ProgramStart       DateField          `json:"programStart"`
	AppDeadline        DateField          `json:"appDeadline"`
	AcceptanceRate     AcceptanceRate     `json:"acceptanceRate"`
	AcceptanceCriteria string             `json:"acceptanceCriteria"`
	Scholarships       []ScholarshipAward `json:"scholarships"`
	Contact            Contact            `json:"contact"`
	Website            string             `json:"website"`
	Image              string             `json:"image,omitempty"`
	Citations          []string           `json:"citations"`
}
