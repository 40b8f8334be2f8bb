package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/naipofo/librucmd/internal/logger"
	"github.com/rs/zerolog"
)

// Caller fetches the raw body of one API endpoint.
type Caller interface {
	Call(ctx context.Context, endpoint string) (string, error)
}

type LoaderOptions struct {
	// Parallel fetches the five collections concurrently. The result is the same either way.
	Parallel bool
}

type Loader struct {
	caller   Caller
	parallel bool
	log      zerolog.Logger
}

func NewLoader(caller Caller, opts LoaderOptions) *Loader {
	return &Loader{caller: caller, parallel: opts.Parallel, log: logger.Get()}
}

type loadTask struct {
	name string
	run  func(ctx context.Context) error
}

// Load fetches the account and all five collections. Any failure discards the whole dataset.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	account, err := l.loadAccount(ctx)
	if err != nil {
		return nil, err
	}
	ds.Account = account

	tasks := []loadTask{
		{name: "Grades", run: func(ctx context.Context) (err error) {
			ds.Grades, err = loadSet[wireGrade, Grade](ctx, l.caller, "Grades", "Grades")
			return err
		}},
		{name: "Users", run: func(ctx context.Context) (err error) {
			ds.Users, err = loadSet[wireUser, User](ctx, l.caller, "Users", "Users")
			return err
		}},
		{name: "Subjects", run: func(ctx context.Context) (err error) {
			ds.Subjects, err = loadSet[wireSubject, Subject](ctx, l.caller, "Subjects", "Subjects")
			return err
		}},
		{name: "Categories", run: func(ctx context.Context) (err error) {
			ds.Categories, err = loadSet[wireCategory, Category](ctx, l.caller, "Categories", "Grades/Categories")
			return err
		}},
		{name: "Comments", run: func(ctx context.Context) (err error) {
			ds.Comments, err = loadSet[wireComment, Comment](ctx, l.caller, "Comments", "Grades/Comments")
			return err
		}},
	}

	if l.parallel {
		err = l.runParallel(ctx, tasks)
	} else {
		err = l.runSequential(ctx, tasks)
	}
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Int("grades", ds.Grades.Len()).
		Int("users", ds.Users.Len()).
		Int("subjects", ds.Subjects.Len()).
		Int("categories", ds.Categories.Len()).
		Int("comments", ds.Comments.Len()).
		Msg("dataset loaded")
	return ds, nil
}

func (l *Loader) runSequential(ctx context.Context, tasks []loadTask) error {
	for _, task := range tasks {
		started := time.Now()
		if err := task.run(ctx); err != nil {
			return err
		}
		l.log.Debug().Str("collection", task.name).Dur("took", time.Since(started)).Msg("collection loaded")
	}
	return nil
}

func (l *Loader) runParallel(ctx context.Context, tasks []loadTask) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error
	for _, task := range tasks {
		wg.Add(1)
		go func(task loadTask) {
			defer wg.Done()
			started := time.Now()
			if err := task.run(ctx); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				errMu.Unlock()
				return
			}
			l.log.Debug().Str("collection", task.name).Dur("took", time.Since(started)).Msg("collection loaded")
		}(task)
	}
	wg.Wait()
	return firstErr
}

func (l *Loader) loadAccount(ctx context.Context) (Account, error) {
	body, err := l.caller.Call(ctx, "Me")
	if err != nil {
		return Account{}, err
	}
	var payload struct {
		Me *struct {
			Account *wireAccount `json:"Account"`
		} `json:"Me"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return Account{}, fmt.Errorf("%w: Me: %v", ErrDecode, err)
	}
	if payload.Me == nil || payload.Me.Account == nil {
		return Account{}, fmt.Errorf("%w: Me: missing field Me.Account", ErrDecode)
	}
	account, err := payload.Me.Account.record()
	if err != nil {
		return Account{}, fmt.Errorf("%w: Me.Account: %v", ErrDecode, err)
	}
	return account, nil
}

type wireRecord[T any] interface {
	record() (T, error)
}

// loadSet calls endpoint, reads the array under key name and keys every element by its Id.
func loadSet[W wireRecord[T], T any](ctx context.Context, caller Caller, name, endpoint string) (*Table[T], error) {
	body, err := caller.Call(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	raw, ok := envelope[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing field %s", ErrDecode, name, name)
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, fmt.Errorf("%w: %s: field %s is null", ErrDecode, name, name)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}

	table := NewTable[T]()
	for i, item := range items {
		var key struct {
			ID *int `json:"Id"`
		}
		if err := json.Unmarshal(item, &key); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrDecode, name, i, err)
		}
		if key.ID == nil {
			return nil, fmt.Errorf("%w: %s[%d]: missing field Id", ErrDecode, name, i)
		}

		var wire W
		if err := json.Unmarshal(item, &wire); err != nil {
			return nil, fmt.Errorf("%w: %s[%d] (Id %d): %v", ErrDecode, name, i, *key.ID, err)
		}
		rec, err := wire.record()
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d] (Id %d): %v", ErrDecode, name, i, *key.ID, err)
		}
		table.Add(*key.ID, rec)
	}
	return table, nil
}
