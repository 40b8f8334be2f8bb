package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	librusclient "github.com/naipofo/librucmd/internal/clients/librus"
	"github.com/naipofo/librucmd/internal/config"
	"github.com/naipofo/librucmd/internal/credentials"
	"github.com/naipofo/librucmd/internal/exporter"
	"github.com/naipofo/librucmd/internal/logger"
	"github.com/naipofo/librucmd/internal/records"
	"github.com/naipofo/librucmd/internal/report"
	"github.com/naipofo/librucmd/internal/store/sqlite"
	"github.com/rs/zerolog"
)

type CredentialLoader interface {
	Load(ctx context.Context) (credentials.AuthData, error)
}

// ClientFactory builds the API caller once a token is available.
type ClientFactory func(ctx context.Context, auth credentials.AuthData) records.Caller

func NewAPIClientFactory(cfg config.Config) ClientFactory {
	return func(ctx context.Context, auth credentials.AuthData) records.Caller {
		return librusclient.New(ctx, auth.Token(), librusclient.Options{
			BaseURL: cfg.APIURL,
			Timeout: cfg.Timeout,
		})
	}
}

type Runner struct {
	cfg       config.Config
	creds     CredentialLoader
	newClient ClientFactory
	in        *bufio.Reader
	printer   *report.Printer
	log       zerolog.Logger
}

type runState struct {
	dataset   *records.Dataset
	subjectID int
	printed   int
	started   time.Time
}

// NewRunner wires a run. in must be the same reader the credential prompter
// uses, otherwise buffered input is lost between prompts.
func NewRunner(cfg config.Config, creds CredentialLoader, newClient ClientFactory, in *bufio.Reader, out io.Writer) *Runner {
	return &Runner{
		cfg:       cfg,
		creds:     creds,
		newClient: newClient,
		in:        in,
		printer:   report.NewPrinter(out),
		log:       logger.Get(),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	state := &runState{started: time.Now()}

	caller, err := r.bootstrap(ctx)
	if err != nil {
		return err
	}
	if err := r.loadDataset(ctx, caller, state); err != nil {
		return err
	}
	r.checkReferences(state)
	if err := r.printReport(state); err != nil {
		return err
	}
	if err := r.snapshot(ctx, state); err != nil {
		return err
	}
	r.finalize(state)

	return nil
}

func (r *Runner) bootstrap(ctx context.Context) (records.Caller, error) {
	auth, err := r.creds.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return r.newClient(ctx, auth), nil
}

func (r *Runner) loadDataset(ctx context.Context, caller records.Caller, state *runState) error {
	loader := records.NewLoader(caller, records.LoaderOptions{Parallel: r.cfg.ParallelFetch})
	ds, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	state.dataset = ds
	return nil
}

func (r *Runner) checkReferences(state *runState) {
	for _, ref := range state.dataset.DanglingReferences() {
		r.log.Warn().
			Int("grade_id", ref.GradeID).
			Str("field", ref.Field).
			Int("id", ref.ID).
			Msg("grade references a missing record")
	}
}

func (r *Runner) printReport(state *runState) error {
	r.printer.PrintHeader(state.dataset)
	subjectID, err := r.printer.AskSubject(r.in)
	if err != nil {
		return err
	}
	state.subjectID = subjectID
	state.printed = r.printer.PrintGrades(state.dataset, subjectID)
	return nil
}

// snapshot writes the optional sqlite snapshot and csv report. With a snapshot
// the csv rows come from the SQL report, otherwise from the in-memory tables.
func (r *Runner) snapshot(ctx context.Context, state *runState) error {
	if !r.cfg.SnapshotEnabled() {
		if r.cfg.CSVOutputPath == "" {
			return nil
		}
		data := report.Rows(state.dataset, state.subjectID)
		return r.exportCSV(data.Headers, data.Records)
	}

	store, err := sqlite.Open(ctx, r.cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	if err := store.SaveDataset(ctx, state.dataset); err != nil {
		return err
	}
	n, err := store.CountRows(ctx, "grades")
	if err != nil {
		return fmt.Errorf("failed to count snapshot grades: %w", err)
	}
	r.log.Debug().Int("grades", n).Str("path", r.cfg.SQLitePath).Msg("snapshot stored")

	if r.cfg.CSVOutputPath == "" {
		return nil
	}
	data, err := store.QueryGradeReport(ctx, state.subjectID)
	if err != nil {
		return fmt.Errorf("failed to query grade report: %w", err)
	}
	return r.exportCSV(data.Headers, data.Records)
}

func (r *Runner) exportCSV(headers []string, rows [][]string) error {
	if err := exporter.WriteCSV(r.cfg.CSVOutputPath, headers, rows); err != nil {
		return fmt.Errorf("failed to export csv report: %w", err)
	}
	return nil
}

func (r *Runner) finalize(state *runState) {
	event := r.log.Info().
		Int("subject_id", state.subjectID).
		Int("grades_printed", state.printed).
		Dur("took", time.Since(state.started))
	if r.cfg.SQLitePath != "" {
		event = event.Str("sqlite_output", r.cfg.SQLitePath)
	}
	if r.cfg.CSVOutputPath != "" {
		event = event.Str("csv_output", r.cfg.CSVOutputPath)
	}
	event.Msg("run complete")
}
