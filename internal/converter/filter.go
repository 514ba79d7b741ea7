package converter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// RecordFilter drops records matching a boolean expression.
//
// The expression sees two variables:
//
//	record - map of field name to value, e.g. record["Part Number"]
//	file   - the input file name
//
// EXAMPLE:
//
//	skip_record_when: 'record["Part Number"] == "" || file startsWith "test_"'
type RecordFilter struct {
	expression string
	program    *vm.Program
}

// NewRecordFilter compiles an expression. An empty expression yields a nil
// filter, which keeps every record.
func NewRecordFilter(expression string) (*RecordFilter, error) {
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression, expr.Env(filterEnv("", nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}

	return &RecordFilter{expression: expression, program: program}, nil
}

// Skip reports whether rec should be dropped.
func (f *RecordFilter) Skip(file string, rec types.Record) (bool, error) {
	if f == nil {
		return false, nil
	}

	result, err := expr.Run(f.program, filterEnv(file, rec))
	if err != nil {
		return false, fmt.Errorf("evaluate expression %q: %w", f.expression, err)
	}

	skip, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q evaluated to %T, expected bool", f.expression, result)
	}
	return skip, nil
}

// Apply returns the records that are kept, in order, and the number dropped.
func (f *RecordFilter) Apply(file string, records []types.Record) ([]types.Record, int, error) {
	if f == nil {
		return records, 0, nil
	}

	kept := make([]types.Record, 0, len(records))
	for _, rec := range records {
		skip, err := f.Skip(file, rec)
		if err != nil {
			return nil, 0, err
		}
		if !skip {
			kept = append(kept, rec)
		}
	}
	return kept, len(records) - len(kept), nil
}

func filterEnv(file string, rec types.Record) map[string]any {
	record := map[string]string(rec)
	if record == nil {
		record = map[string]string{}
	}
	return map[string]any{
		"record": record,
		"file":   file,
	}
}
