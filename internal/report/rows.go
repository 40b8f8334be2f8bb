package report

import (
	"strconv"

	"github.com/naipofo/librucmd/internal/records"
)

// Headers is the column layout shared by Rows and the sqlite report query.
var Headers = []string{"grade_id", "subject", "grade", "category", "weight", "teacher", "comment"}

type Data struct {
	Headers []string
	Records [][]string
}

// Rows builds the filtered grade report as a table with every reference resolved.
// Unresolved references render as empty cells.
func Rows(ds *records.Dataset, subjectID int) Data {
	data := Data{Headers: append([]string(nil), Headers...), Records: make([][]string, 0)}
	for id, g := range ds.Grades.All() {
		if g.Subject != subjectID {
			continue
		}
		subject, _ := ds.Subjects.Get(g.Subject)
		category, _ := ds.Categories.Get(g.Category)
		weight := ""
		if category.Weight != nil {
			weight = strconv.Itoa(*category.Weight)
		}
		teacher := ""
		if u, ok := ds.Users.Get(g.AddedBy); ok {
			teacher = u.FullName()
		}
		comment := ""
		if g.Comment != nil {
			if c, ok := ds.Comments.Get(*g.Comment); ok {
				comment = c.Text
			}
		}
		data.Records = append(data.Records, []string{
			strconv.Itoa(id), subject.Name, g.Grade, category.Name, weight, teacher, comment,
		})
	}
	return data
}
