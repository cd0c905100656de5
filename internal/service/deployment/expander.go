package deployment

import (
	"sort"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
)

// Expand turns assignment intervals into one concrete Deployment per
// (person, day) covered by an overlapping assignment, for every calendar day
// in [dateFrom, dateTo] inclusive.
//
// Expansion is a pure function: identical inputs always produce identical
// output, ordered by person display key (name, then person ID) and date.
// Data anomalies never fail the expansion; they are resolved
// deterministically and reported alongside the result:
//
//   - a person with more than one assignment covering the same day gets the
//     assignment with the later start date; ties fall back to the later
//     creation time, then the lexicographically larger ID;
//   - an assignment referencing a shift missing from the lookup gets the
//     full-day sentinel window 00:00-23:59.
func Expand(
	assignments []assignment.Assignment,
	dateFrom, dateTo time.Time,
	shifts map[string]shift.Shift,
	personNames map[string]string,
) ([]deployment.Deployment, []deployment.Anomaly) {
	byPerson := make(map[string][]assignment.Assignment)
	for _, a := range assignments {
		byPerson[a.PersonID] = append(byPerson[a.PersonID], a)
	}

	var deployments []deployment.Deployment
	var anomalies []deployment.Anomaly

	for personID, personAssignments := range byPerson {
		for day := dateFrom; !day.After(dateTo); day = day.AddDate(0, 0, 1) {
			var covering []assignment.Assignment
			for _, a := range personAssignments {
				if a.Covers(day) {
					covering = append(covering, a)
				}
			}
			if len(covering) == 0 {
				continue
			}

			winner := resolveOverlap(covering)
			if len(covering) > 1 {
				ids := make([]string, 0, len(covering))
				for _, a := range covering {
					ids = append(ids, a.ID)
				}
				sort.Strings(ids)
				anomalies = append(anomalies, deployment.Anomaly{
					Kind:          deployment.AnomalyOverlappingAssignments,
					PersonID:      personID,
					Date:          day,
					AssignmentIDs: ids,
				})
			}

			d := deployment.Deployment{
				PersonID:           winner.PersonID,
				PersonName:         personNames[winner.PersonID],
				SiteID:             winner.SiteID,
				ShiftID:            winner.ShiftID,
				Date:               day,
				SourceAssignmentID: winner.ID,
			}

			if s, ok := shifts[winner.ShiftID]; ok {
				d.ShiftName = s.Name
				d.StartTime = s.StartTime
				d.EndTime = s.EndTime
			} else {
				d.StartTime = deployment.FallbackStartTime
				d.EndTime = deployment.FallbackEndTime
				anomalies = append(anomalies, deployment.Anomaly{
					Kind:     deployment.AnomalyMissingShift,
					PersonID: personID,
					Date:     day,
					ShiftID:  winner.ShiftID,
				})
			}

			deployments = append(deployments, d)
		}
	}

	sort.Slice(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.PersonName != b.PersonName {
			return a.PersonName < b.PersonName
		}
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		return a.Date.Before(b.Date)
	})

	sort.Slice(anomalies, func(i, j int) bool {
		a, b := anomalies[i], anomalies[j]
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Kind < b.Kind
	})

	return deployments, anomalies
}

// resolveOverlap picks the winning assignment for a contested day. The
// tie-break is total, so repeated runs always agree.
func resolveOverlap(covering []assignment.Assignment) assignment.Assignment {
	winner := covering[0]
	for _, a := range covering[1:] {
		if a.StartDate.After(winner.StartDate) {
			winner = a
			continue
		}
		if a.StartDate.Equal(winner.StartDate) {
			if a.CreatedAt.After(winner.CreatedAt) {
				winner = a
				continue
			}
			if a.CreatedAt.Equal(winner.CreatedAt) && a.ID > winner.ID {
				winner = a
			}
		}
	}
	return winner
}
