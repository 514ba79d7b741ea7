// =============================================================================
// Product File Generator - SIN Resolver
// =============================================================================
//
// Every input file is written under a single SIN (Special Item Number), the
// product category code of the contract. The code is resolved in one of two
// ways:
//
//   DIRECT:   The input file name is looked up in the SIN mapping. A file
//             missing from the mapping gets an empty code.
//
//   MAJORITY: The records' own SIN column is tallied. The most frequent code
//             that is on the allow-list wins; failing that, the most frequent
//             code whose mapped value is on the allow-list. A file with no
//             such code is rejected as a whole.
//
// =============================================================================

package sin

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// ErrNoValidSIN rejects a file whose records carry no allowed code.
var ErrNoValidSIN = errors.New("no valid SIN found")

// Resolver decides the SIN code for one input file.
type Resolver interface {
	// Resolve returns the code for the file's records. fileName is the
	// input's base name.
	Resolve(fileName string, records []types.Record) (string, error)
}

// NewResolver returns the resolver for the configured strategy.
func NewResolver(cfg config.SINConfig, mapping Mapping) (Resolver, error) {
	switch cfg.Strategy {
	case config.SINDirect:
		return &DirectResolver{Mapping: mapping}, nil
	case config.SINMajority:
		return &MajorityResolver{
			Mapping: mapping,
			Allowed: NewAllowedSet(cfg.Allowed),
		}, nil
	default:
		return nil, fmt.Errorf("unknown SIN strategy %q", cfg.Strategy)
	}
}

// =============================================================================
// ALLOW-LIST
// =============================================================================

// AllowedSet is the set of codes a resolved SIN may take.
type AllowedSet map[string]struct{}

// NewAllowedSet builds a set from a list of codes.
func NewAllowedSet(codes []string) AllowedSet {
	set := make(AllowedSet, len(codes))
	for _, code := range codes {
		set[strings.TrimSpace(code)] = struct{}{}
	}
	return set
}

// Contains reports whether code is allowed.
func (s AllowedSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// =============================================================================
// DIRECT LOOKUP
// =============================================================================

// DirectResolver looks the file name up in the mapping. It never rejects a
// file and does not consult the allow-list.
type DirectResolver struct {
	Mapping Mapping
}

// Resolve implements Resolver.
func (r *DirectResolver) Resolve(fileName string, _ []types.Record) (string, error) {
	return r.Mapping.Lookup(filepath.Base(fileName)), nil
}

// =============================================================================
// MAJORITY VOTE
// =============================================================================

// MajorityResolver picks the most frequent allowed code among the records.
type MajorityResolver struct {
	Mapping Mapping
	Allowed AllowedSet
}

// Resolve implements Resolver.
//
// RETURNS:
//   - The chosen code.
//   - ErrNoValidSIN when neither a raw code nor a mapped code is allowed.
func (r *MajorityResolver) Resolve(_ string, records []types.Record) (string, error) {
	ranked := Rank(records)

	for _, code := range ranked {
		if r.Allowed.Contains(code) {
			return code, nil
		}
	}

	for _, code := range ranked {
		mapped, ok := r.Mapping[code]
		if ok && r.Allowed.Contains(mapped) {
			return mapped, nil
		}
	}

	return "", ErrNoValidSIN
}

// Rank returns the distinct non-empty SIN codes of the records, most frequent
// first. Codes with equal counts keep the order of their first appearance.
func Rank(records []types.Record) []string {
	counts := make(map[string]int)
	var order []string

	for _, rec := range records {
		code := strings.TrimSpace(rec.Get(types.FieldSINNumber))
		if code == "" {
			continue
		}
		if _, seen := counts[code]; !seen {
			order = append(order, code)
		}
		counts[code]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	return order
}

// Apply overwrites the SIN field of every record.
func Apply(records []types.Record, code string) {
	for _, rec := range records {
		rec.Set(types.FieldSINNumber, code)
	}
}
