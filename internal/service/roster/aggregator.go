package roster

import (
	"sort"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/roster"
)

// BuildRoster projects per-day deployments into a grid: one row per person,
// one cell per calendar day in [dateFrom, dateTo] inclusive, empty when the
// person has no deployment that day.
//
// Pure and idempotent: the same deployments yield identical ordered output
// (rows by person display name then ID, cells by date), so results can be
// cached or diffed byte for byte.
func BuildRoster(deployments []deployment.Deployment, dateFrom, dateTo time.Time) []roster.RosterRow {
	type person struct {
		id   string
		name string
	}

	byPerson := make(map[person]map[string]deployment.Deployment)
	for _, d := range deployments {
		key := person{id: d.PersonID, name: d.PersonName}
		if byPerson[key] == nil {
			byPerson[key] = make(map[string]deployment.Deployment)
		}
		byPerson[key][d.Date.Format("2006-01-02")] = d
	}

	persons := make([]person, 0, len(byPerson))
	for p := range byPerson {
		persons = append(persons, p)
	}
	sort.Slice(persons, func(i, j int) bool {
		if persons[i].name != persons[j].name {
			return persons[i].name < persons[j].name
		}
		return persons[i].id < persons[j].id
	})

	rows := make([]roster.RosterRow, 0, len(persons))
	for _, p := range persons {
		row := roster.RosterRow{
			PersonID:   p.id,
			PersonName: p.name,
		}
		for day := dateFrom; !day.After(dateTo); day = day.AddDate(0, 0, 1) {
			cell := roster.RosterCell{Date: day.Format("2006-01-02")}
			if d, ok := byPerson[p][cell.Date]; ok {
				resp := deployment.ToResponse(d)
				cell.Deployment = &resp
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return rows
}
