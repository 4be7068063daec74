package core

import "strings"

// Criteria describes a conjunctive search over content items. Zero values
// mean "not filtered on". The zero value keeps excluded (no-incluir) items
// in the result; set OmitExcluded to drop them before the other filters.
type Criteria struct {
	// Text is matched case-insensitively as a substring of the item's
	// title, type, resources and comments joined with single spaces.
	Text string

	// Status filters on exact status equality.
	Status string

	// Pillar filters on membership of a single pillar tag.
	Pillar string

	// Week filters on the owning week's number. Nil means any week.
	Week *int

	// OmitExcluded drops no-incluir items before the other filters.
	OmitExcluded bool
}

// Match is a content item annotated with its owning week's context.
type Match struct {
	ContentItem
	WeekNumber int    `json:"semana"`
	WeekDates  string `json:"semana_fechas"`
	WeekTopic  string `json:"semana_tema"`
}

// CriteriaEcho reports the criteria a search was run with.
type CriteriaEcho struct {
	Text            string `json:"texto,omitempty"`
	Status          string `json:"estado,omitempty"`
	Pillar          string `json:"pilar,omitempty"`
	Week            *int   `json:"semana,omitempty"`
	IncludeExcluded bool   `json:"incluir_excluidos"`
}

// FilterResult is the outcome of one search: the surviving items, their
// count and the criteria that produced them.
type FilterResult struct {
	Criteria CriteriaEcho `json:"criterios"`
	Total    int          `json:"total"`
	Items    []Match      `json:"resultados"`
}

// Filter applies the criteria over every item in the document. All criteria
// are ANDed; each surviving item carries its week context.
func Filter(doc Document, c Criteria) FilterResult {
	result := FilterResult{
		Criteria: CriteriaEcho{
			Text:            c.Text,
			Status:          c.Status,
			Pillar:          c.Pillar,
			Week:            c.Week,
			IncludeExcluded: !c.OmitExcluded,
		},
		Items: []Match{},
	}

	needle := strings.ToLower(c.Text)

	for _, week := range doc.Weeks {
		if c.Week != nil && week.Number != *c.Week {
			continue
		}
		for _, item := range week.Contents {
			if c.OmitExcluded && item.Excluded() {
				continue
			}
			if c.Status != "" && item.Status != c.Status {
				continue
			}
			if c.Pillar != "" && !hasPillar(item, c.Pillar) {
				continue
			}
			if needle != "" && !strings.Contains(searchText(item), needle) {
				continue
			}

			result.Items = append(result.Items, Match{
				ContentItem: item,
				WeekNumber:  week.Number,
				WeekDates:   week.Dates,
				WeekTopic:   week.Topic,
			})
		}
	}

	result.Total = len(result.Items)
	return result
}

// searchText joins the searchable fields with single spaces so a substring
// cannot falsely span field boundaries beyond the join itself.
func searchText(item ContentItem) string {
	return strings.ToLower(strings.Join([]string{
		item.Title,
		item.Type,
		item.Resources,
		item.Comments,
	}, " "))
}

func hasPillar(item ContentItem, pillar string) bool {
	for _, p := range item.Pillars {
		if p == pillar {
			return true
		}
	}
	return false
}
