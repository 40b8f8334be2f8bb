package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/naipofo/librucmd/internal/records"
	"github.com/naipofo/librucmd/internal/records/recordstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, bodies map[string]string, parallel bool) (*records.Dataset, error) {
	t.Helper()
	caller := &recordstest.FakeCaller{Bodies: bodies}
	return records.NewLoader(caller, records.LoaderOptions{Parallel: parallel}).Load(context.Background())
}

func TestLoadFullDataset(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			ds, err := load(t, recordstest.Bodies(), parallel)
			require.NoError(t, err)

			assert.Equal(t, "Jan Kowalski", ds.Account.FullName())
			assert.Equal(t, "jan@example.com", ds.Account.Email)

			assert.Equal(t, []int{10, 11, 12}, ds.Grades.IDs())
			assert.Equal(t, []int{2, 5}, ds.Users.IDs())
			assert.Equal(t, []int{1, 2}, ds.Subjects.IDs())
			assert.Equal(t, []int{3, 4}, ds.Categories.IDs())
			assert.Equal(t, []int{7}, ds.Comments.IDs())

			g, ok := ds.Grades.Get(10)
			require.True(t, ok)
			assert.Equal(t, records.Grade{Grade: "5", AddedBy: 2, Category: 3, Subject: 1}, g)

			g, ok = ds.Grades.Get(11)
			require.True(t, ok)
			require.NotNil(t, g.Comment)
			assert.Equal(t, 7, *g.Comment)

			cat, _ := ds.Categories.Get(3)
			require.NotNil(t, cat.Weight)
			assert.Equal(t, 3, *cat.Weight)
			cat, _ = ds.Categories.Get(4)
			assert.Nil(t, cat.Weight)

			assert.Empty(t, ds.DanglingReferences())
		})
	}
}

func TestLoadCallsEveryEndpoint(t *testing.T) {
	caller := &recordstest.FakeCaller{Bodies: recordstest.Bodies()}
	_, err := records.NewLoader(caller, records.LoaderOptions{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Me", "Grades", "Users", "Subjects", "Grades/Categories", "Grades/Comments"}, caller.Calls())
}

func TestLoadEmptyGrades(t *testing.T) {
	bodies := recordstest.Bodies()
	bodies["Grades"] = `{"Grades":[]}`

	ds, err := load(t, bodies, false)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Grades.Len())
}

func TestLoadFailuresAbortWholeLoad(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		body     string
	}{
		{name: "invalid json", endpoint: "Users", body: `<html>502</html>`},
		{name: "missing collection key", endpoint: "Subjects", body: `{"Subject":[]}`},
		{name: "collection not an array", endpoint: "Grades/Comments", body: `{"Comments":{"Id":1}}`},
		{name: "collection is null", endpoint: "Grades", body: `{"Grades":null}`},
		{name: "element without id", endpoint: "Subjects", body: `{"Subjects":[{"Name":"Math","Short":"M"}]}`},
		{name: "element missing field", endpoint: "Users", body: `{"Users":[{"Id":1,"FirstName":"A"}]}`},
		{name: "grade with bare subject", endpoint: "Grades", body: `{"Grades":[{"Id":1,"Grade":"5","AddedBy":{"Id":2},"Category":{"Id":3},"Subject":1}]}`},
		{name: "me without account", endpoint: "Me", body: `{"Me":{}}`},
		{name: "account missing email", endpoint: "Me", body: `{"Me":{"Account":{"FirstName":"A","LastName":"B"}}}`},
	}

	for _, tt := range tests {
		for _, parallel := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				bodies := recordstest.Bodies()
				bodies[tt.endpoint] = tt.body

				ds, err := load(t, bodies, parallel)
				assert.Nil(t, ds)
				assert.True(t, errors.Is(err, records.ErrDecode), "got %v", err)
			})
		}
	}
}

func TestLoadPropagatesCallerError(t *testing.T) {
	boom := errors.New("connection reset")
	for _, parallel := range []bool{false, true} {
		caller := &recordstest.FakeCaller{
			Bodies: recordstest.Bodies(),
			Errs:   map[string]error{"Grades/Categories": boom},
		}
		ds, err := records.NewLoader(caller, records.LoaderOptions{Parallel: parallel}).Load(context.Background())
		assert.Nil(t, ds)
		assert.ErrorIs(t, err, boom)
	}
}

func TestDanglingReferences(t *testing.T) {
	bodies := recordstest.Bodies()
	bodies["Grades"] = `{"Grades":[
		{"Id":1,"Grade":"5","AddedBy":{"Id":99},"Category":{"Id":3},"Subject":{"Id":1},"Comments":[{"Id":70}]}
	]}`

	ds, err := load(t, bodies, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []records.DanglingRef{
		{GradeID: 1, Field: "AddedBy", ID: 99},
		{GradeID: 1, Field: "Comments", ID: 70},
	}, ds.DanglingReferences())
}
