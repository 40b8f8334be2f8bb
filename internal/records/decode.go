package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrDecode = errors.New("records: decode error")

var jsonNull = []byte("null")

// embeddedRef decodes a foreign key sent as a full object, e.g. "Subject": {"Id": 3, "Url": "..."}.
// Only the Id survives; a bare number or a list is a shape error.
type embeddedRef int

func (r *embeddedRef) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return errors.New("expected object with Id, got null")
	}
	var obj struct {
		ID *int `json:"Id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("expected object with Id: %w", err)
	}
	if obj.ID == nil {
		return errors.New("embedded object has no Id")
	}
	*r = embeddedRef(*obj.ID)
	return nil
}

// embeddedRefList decodes a foreign key sent as a list of objects, e.g. "Comments": [{"Id": 7}].
// The first element's Id is kept and the rest are not inspected. An empty list or null means unset.
type embeddedRefList struct {
	id *int
}

func (l *embeddedRefList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		l.id = nil
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("expected list of objects with Id: %w", err)
	}
	if len(items) == 0 {
		l.id = nil
		return nil
	}
	var first embeddedRef
	if err := first.UnmarshalJSON(items[0]); err != nil {
		return err
	}
	id := int(first)
	l.id = &id
	return nil
}

type wireAccount struct {
	FirstName *string `json:"FirstName"`
	LastName  *string `json:"LastName"`
	Email     *string `json:"Email"`
}

func (w wireAccount) record() (Account, error) {
	if err := required(field{"FirstName", w.FirstName}, field{"LastName", w.LastName}, field{"Email", w.Email}); err != nil {
		return Account{}, err
	}
	return Account{FirstName: *w.FirstName, LastName: *w.LastName, Email: *w.Email}, nil
}

type wireGrade struct {
	Grade    *string          `json:"Grade"`
	AddedBy  *embeddedRef     `json:"AddedBy"`
	Category *embeddedRef     `json:"Category"`
	Subject  *embeddedRef     `json:"Subject"`
	Comments *embeddedRefList `json:"Comments"`
}

func (w wireGrade) record() (Grade, error) {
	if err := required(field{"Grade", w.Grade}); err != nil {
		return Grade{}, err
	}
	switch {
	case w.AddedBy == nil:
		return Grade{}, errors.New("missing field AddedBy")
	case w.Category == nil:
		return Grade{}, errors.New("missing field Category")
	case w.Subject == nil:
		return Grade{}, errors.New("missing field Subject")
	}
	g := Grade{
		Grade:    *w.Grade,
		AddedBy:  int(*w.AddedBy),
		Category: int(*w.Category),
		Subject:  int(*w.Subject),
	}
	if w.Comments != nil {
		g.Comment = w.Comments.id
	}
	return g, nil
}

type wireUser struct {
	FirstName *string `json:"FirstName"`
	LastName  *string `json:"LastName"`
}

func (w wireUser) record() (User, error) {
	if err := required(field{"FirstName", w.FirstName}, field{"LastName", w.LastName}); err != nil {
		return User{}, err
	}
	return User{FirstName: *w.FirstName, LastName: *w.LastName}, nil
}

type wireSubject struct {
	Name  *string `json:"Name"`
	Short *string `json:"Short"`
}

func (w wireSubject) record() (Subject, error) {
	if err := required(field{"Name", w.Name}, field{"Short", w.Short}); err != nil {
		return Subject{}, err
	}
	return Subject{Name: *w.Name, Short: *w.Short}, nil
}

type wireCategory struct {
	Name   *string `json:"Name"`
	Weight *int    `json:"Weight"`
}

func (w wireCategory) record() (Category, error) {
	if err := required(field{"Name", w.Name}); err != nil {
		return Category{}, err
	}
	return Category{Name: *w.Name, Weight: w.Weight}, nil
}

type wireComment struct {
	Text *string `json:"Text"`
}

func (w wireComment) record() (Comment, error) {
	if err := required(field{"Text", w.Text}); err != nil {
		return Comment{}, err
	}
	return Comment{Text: *w.Text}, nil
}

type field struct {
	name  string
	value *string
}

func required(fields ...field) error {
	for _, f := range fields {
		if f.value == nil {
			return fmt.Errorf("missing field %s", f.name)
		}
	}
	return nil
}
