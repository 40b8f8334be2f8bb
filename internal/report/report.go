package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/naipofo/librucmd/internal/records"
)

const noComment = "bez komentarza"

var ErrInvalidSubject = errors.New("report: subject id must be an integer")

// Printer renders the console report. All text is Polish.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) PrintHeader(ds *records.Dataset) {
	fmt.Fprintf(p.out, "Witaj %s, twój email to %s\n", ds.Account.FullName(), ds.Account.Email)
	fmt.Fprintln(p.out, "Dostępne przedmioty: ")
	for id, subject := range ds.Subjects.All() {
		fmt.Fprintf(p.out, "%d - %s\n", id, subject.Name)
	}
}

// AskSubject prompts for a subject id and reads one line from in.
func (p *Printer) AskSubject(in *bufio.Reader) (int, error) {
	fmt.Fprint(p.out, "Jaki przedmiot wyświetlić? ")
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("reading subject id: %w", err)
	}
	line = strings.TrimSpace(line)
	id, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubject, line)
	}
	return id, nil
}

// PrintGrades writes one line per grade of subjectID and returns how many were printed.
func (p *Printer) PrintGrades(ds *records.Dataset, subjectID int) int {
	printed := 0
	for _, g := range ds.Grades.All() {
		if g.Subject != subjectID {
			continue
		}
		fmt.Fprintf(p.out, "Ocena %s: %s\n", g.Grade, commentText(ds, g))
		printed++
	}
	return printed
}

// commentText falls back to the no-comment text when the grade has no comment
// or its comment id does not resolve.
func commentText(ds *records.Dataset, g records.Grade) string {
	if g.Comment == nil {
		return noComment
	}
	c, ok := ds.Comments.Get(*g.Comment)
	if !ok {
		return noComment
	}
	return c.Text
}
