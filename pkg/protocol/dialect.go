package protocol

import "fmt"

// Dialect is the vocabulary used for responses.
type Dialect struct {
	Name          string
	Added         string
	NotAdded      string
	Scrapped      string
	NotScrapped   string
	Demolished    string
	NotDemolished string
	NoPath        string
}

var (
	// English is the default response vocabulary.
	English = Dialect{
		Name:          "en",
		Added:         "added",
		NotAdded:      "not added",
		Scrapped:      "scrapped",
		NotScrapped:   "not scrapped",
		Demolished:    "demolished",
		NotDemolished: "not demolished",
		NoPath:        "no path",
	}

	// Italian is the vocabulary of the legacy command scripts.
	Italian = Dialect{
		Name:          "it",
		Added:         "aggiunta",
		NotAdded:      "non aggiunta",
		Scrapped:      "rottamata",
		NotScrapped:   "non rottamata",
		Demolished:    "demolita",
		NotDemolished: "non demolita",
		NoPath:        "nessun percorso",
	}
)

// DialectByName returns the dialect called name ("en" or "it").
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "", English.Name, "english":
		return English, nil
	case Italian.Name, "italian":
		return Italian, nil
	}
	return Dialect{}, fmt.Errorf("unknown dialect %q (want en or it)", name)
}
