// Package records holds the typed Librus records and the loader that builds
// them from the raw API collections.
package records

type Account struct {
	FirstName string
	LastName  string
	Email     string
}

func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Grade references its subject, category, author and optional comment by id.
type Grade struct {
	Grade    string
	AddedBy  int
	Category int
	Subject  int
	Comment  *int
}

type User struct {
	FirstName string
	LastName  string
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Subject struct {
	Name  string
	Short string
}

type Category struct {
	Name   string
	Weight *int
}

type Comment struct {
	Text string
}

// Dataset is everything one load produces. It is built once and only read afterwards.
type Dataset struct {
	Account    Account
	Grades     *Table[Grade]
	Users      *Table[User]
	Subjects   *Table[Subject]
	Categories *Table[Category]
	Comments   *Table[Comment]
}

type DanglingRef struct {
	GradeID int
	Field   string
	ID      int
}

// DanglingReferences lists grade foreign keys with no matching row.
func (d *Dataset) DanglingReferences() []DanglingRef {
	var out []DanglingRef
	for id, g := range d.Grades.All() {
		if !d.Subjects.Has(g.Subject) {
			out = append(out, DanglingRef{GradeID: id, Field: "Subject", ID: g.Subject})
		}
		if !d.Categories.Has(g.Category) {
			out = append(out, DanglingRef{GradeID: id, Field: "Category", ID: g.Category})
		}
		if !d.Users.Has(g.AddedBy) {
			out = append(out, DanglingRef{GradeID: id, Field: "AddedBy", ID: g.AddedBy})
		}
		if g.Comment != nil && !d.Comments.Has(*g.Comment) {
			out = append(out, DanglingRef{GradeID: id, Field: "Comments", ID: *g.Comment})
		}
	}
	return out
}
