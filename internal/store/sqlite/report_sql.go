package sqlite

import (
	"context"
	_ "embed"
)

//go:embed sql/grade_report.sql
var gradeReportSQL string

type ReportData struct {
	Headers []string
	Records [][]string
}

// QueryGradeReport returns the snapshot's grades for subjectID with every reference resolved.
func (s *Store) QueryGradeReport(ctx context.Context, subjectID int) (ReportData, error) {
	rows, err := s.db.QueryContext(ctx, gradeReportSQL, subjectID)
	if err != nil {
		return ReportData{}, err
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return ReportData{}, err
	}

	records := make([][]string, 0, 64)
	for rows.Next() {
		vals := make([]any, len(headers))
		valPtrs := make([]any, len(headers))
		for i := range vals {
			valPtrs[i] = &vals[i]
		}
		if err := rows.Scan(valPtrs...); err != nil {
			return ReportData{}, err
		}
		record := make([]string, len(headers))
		for i, v := range vals {
			record[i] = stringifyDBValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return ReportData{}, err
	}
	return ReportData{Headers: headers, Records: records}, nil
}
