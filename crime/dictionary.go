package crime

import (
	"fmt"
	"sort"

	"github.com/go-sif/crimeflow/errors"
	"github.com/tidwall/gjson"
)

// UnknownCategory is the code assigned to categories which are absent from a Dictionary
const UnknownCategory = "0"

// A Dictionary maps crime category names to their numeric codes.
// It is read-only once constructed, and may be shared between goroutines.
type Dictionary struct {
	codes map[string]string
}

// NewDictionary creates a Dictionary from a map of category names to codes
func NewDictionary(codes map[string]string) *Dictionary {
	d := &Dictionary{codes: make(map[string]string, len(codes))}
	for name, code := range codes {
		d.codes[name] = code
	}
	return d
}

// DefaultDictionary returns the Metropolitan Police major crime categories
func DefaultDictionary() *Dictionary {
	return NewDictionary(map[string]string{
		"Theft and Handling":          "1",
		"Violence Against the Person": "2",
		"Criminal Damage":             "3",
		"Drugs":                       "4",
		"Burglary":                    "5",
		"Robbery":                     "6",
		"Other Notifiable Offences":   "7",
		"Fraud or Forgery":            "8",
		"Sexual Offences":             "9",
	})
}

// LoadDictionary parses a JSON object of category names to codes, e.g.
// {"Burglary": "5", "Drugs": 4}. Codes may be strings or integers.
func LoadDictionary(data []byte) (*Dictionary, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.MalformedHintError{Hint: "dictionary", Reason: "not valid JSON"}
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, errors.MalformedHintError{Hint: "dictionary", Reason: "must be a JSON object"}
	}
	codes := make(map[string]string)
	var err error
	parsed.ForEach(func(name, code gjson.Result) bool {
		switch code.Type {
		case gjson.String:
			codes[name.String()] = code.String()
		case gjson.Number:
			if code.Num != float64(code.Int()) {
				err = errors.MalformedHintError{Hint: "dictionary", Reason: fmt.Sprintf("code for %q is not an integer", name.String())}
				return false
			}
			codes[name.String()] = fmt.Sprintf("%d", code.Int())
		default:
			err = errors.MalformedHintError{Hint: "dictionary", Reason: fmt.Sprintf("code for %q must be a string or integer", name.String())}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return NewDictionary(codes), nil
}

// Code returns the code for a category, or UnknownCategory if the category is
// absent or maps to an empty code
func (d *Dictionary) Code(category string) string {
	if code, ok := d.codes[category]; ok && len(code) > 0 {
		return code
	}
	return UnknownCategory
}

// Len returns the number of categories in this Dictionary
func (d *Dictionary) Len() int {
	return len(d.codes)
}

// Categories returns the category names in this Dictionary, in sorted order
func (d *Dictionary) Categories() []string {
	names := make([]string, 0, len(d.codes))
	for name := range d.codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
