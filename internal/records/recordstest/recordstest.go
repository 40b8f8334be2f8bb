// Package recordstest provides an in-memory API fake and ready-made payloads
// for tests that need a loaded dataset.
package recordstest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/naipofo/librucmd/internal/records"
)

// FakeCaller serves canned bodies keyed by endpoint.
type FakeCaller struct {
	Bodies map[string]string
	Errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *FakeCaller) Call(ctx context.Context, endpoint string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.Errs[endpoint]; ok {
		return "", err
	}
	body, ok := f.Bodies[endpoint]
	if !ok {
		return "", fmt.Errorf("fake caller: no body for %s", endpoint)
	}
	return body, nil
}

func (f *FakeCaller) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Bodies returns a consistent set of payloads: two subjects, three grades
// (one commented), two categories, two users and one comment.
func Bodies() map[string]string {
	return map[string]string{
		"Me": `{"Me":{"Account":{"Id":1,"FirstName":"Jan","LastName":"Kowalski","Email":"jan@example.com","Login":"jk"}}}`,
		"Subjects": `{"Subjects":[
			{"Id":1,"Name":"Math","Short":"M","No":1},
			{"Id":2,"Name":"History","Short":"H","No":2}
		]}`,
		"Grades": `{"Grades":[
			{"Id":10,"Grade":"5","AddedBy":{"Id":2,"Url":"x"},"Category":{"Id":3,"Url":"y"},"Subject":{"Id":1,"Url":"z"},"Comments":[]},
			{"Id":11,"Grade":"3+","AddedBy":{"Id":2},"Category":{"Id":4},"Subject":{"Id":2},"Comments":[{"Id":7}]},
			{"Id":12,"Grade":"4","AddedBy":{"Id":5},"Category":{"Id":4},"Subject":{"Id":1},"Comments":[{"Id":7,"Url":"c"}]}
		]}`,
		"Users": `{"Users":[
			{"Id":2,"FirstName":"Anna","LastName":"Nowak"},
			{"Id":5,"FirstName":"Piotr","LastName":"Wiśniewski"}
		]}`,
		"Grades/Categories": `{"Categories":[
			{"Id":3,"Name":"Sprawdzian","Weight":3},
			{"Id":4,"Name":"Kartkówka"}
		]}`,
		"Grades/Comments": `{"Comments":[{"Id":7,"Text":"Well done","AddedBy":{"Id":2}}]}`,
	}
}

// Load runs a loader over bodies and fails the test on error.
func Load(t testing.TB, bodies map[string]string) *records.Dataset {
	t.Helper()
	ds, err := records.NewLoader(&FakeCaller{Bodies: bodies}, records.LoaderOptions{}).Load(context.Background())
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return ds
}
