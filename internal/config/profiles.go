package config

import "github.com/ginjaninja78/fcp-product-file-generator/internal/types"

// DefaultAllowedSINs is the built-in allow-list of resolved SIN codes.
var DefaultAllowedSINs = []string{
	"332510C",
	"332999",
	"333316P",
	"33411",
	"339920S",
	"511130",
	"OLM",
}

// staticLiterals are the business-rule columns shared by both layouts.
var staticLiterals = []LiteralColumn{
	{Column: 1, Value: "B"},
	{Column: 9, Value: "EA"},
	{Column: 17, Value: "MX"},
	{Column: 18, Value: "15"},
	{Column: 19, Value: "AE"},
	{Column: 20, Value: "D"},
	{Column: 21, Value: "O"},
	{Column: 22, Value: "O"},
	{Column: 23, Value: "O"},
	{Column: 30, Value: "AlegnaLogo.jpg"},
}

var priceFormulas = []FormulaColumn{
	{Column: 12, Multiplier: 1.4},
	{Column: 15, Multiplier: 0.9925},
}

var presets = map[string]MainConfig{
	StrategySentinel: {
		Extraction: ExtractionConfig{
			Strategy:        StrategySentinel,
			StartMarker:     "#",
			EndMarker:       "-",
			EndMarkerColumn: intPtr(10),
			ColumnNames: []string{
				"A", types.FieldManufacturer, types.FieldPartNumber, types.FieldDescription,
				types.FieldTotalSales, "E", "F", "G", "H", types.FieldMaxListPrice,
				"K", "L", "M", "N", "O",
			},
			StartRow: 3,
			RowStep:  2,
		},
		SIN:         SINConfig{Strategy: SINDirect, Allowed: DefaultAllowedSINs},
		Description: DescriptionConfig{Policy: DescriptionPhrase, MaxLength: 40},
		Layout: LayoutConfig{
			Literals: staticLiterals,
			Fields: []FieldColumn{
				{Column: 2, Field: types.FieldManufacturer},
				{Column: 3, Field: types.FieldPartNumber},
				{Column: 4, Field: types.FieldPartNumber},
				{Column: 5, Field: types.FieldSINNumber},
				{Column: 6, Field: types.FieldCleanDescription},
				{Column: 7, Field: types.FieldDescription},
				{Column: 16, Field: types.FieldMaxListPrice, Numeric: true},
				{Column: 32, Field: types.FieldTotalSales, Numeric: true},
			},
			PriceColumn: 16,
			Formulas:    priceFormulas,
			FontName:    "Calibri",
			FontSize:    12,
		},
	},
	StrategyStride: {
		Extraction: ExtractionConfig{
			Strategy:        StrategyStride,
			StartMarker:     "#",
			EndMarker:       "-",
			EndMarkerColumn: intPtr(10),
			StartRow:        3,
			RowStep:         2,
			ColumnMap: map[string]int{
				types.FieldPartNumber:    2,
				types.FieldItemName:      3,
				types.FieldManufacturer:  4,
				types.FieldUnitPrice:     6,
				types.FieldExtendedPrice: 8,
				types.FieldSINNumber:     10,
				types.FieldDescription:   12,
			},
		},
		SIN:         SINConfig{Strategy: SINMajority, Allowed: DefaultAllowedSINs},
		Description: DescriptionConfig{Policy: DescriptionLegacy, MaxLength: 40},
		Layout: LayoutConfig{
			Literals: staticLiterals,
			Fields: []FieldColumn{
				{Column: 2, Field: types.FieldManufacturer},
				{Column: 3, Field: types.FieldPartNumber},
				{Column: 4, Field: types.FieldPartNumber},
				{Column: 5, Field: types.FieldSINNumber},
				{Column: 6, Field: types.FieldItemName},
				{Column: 7, Field: types.FieldCleanDescription},
				{Column: 16, Field: types.FieldUnitPrice, Numeric: true},
				{Column: 32, Field: types.FieldExtendedPrice, Numeric: true},
			},
			PriceColumn: 16,
			Formulas:    priceFormulas,
			FontName:    "Calibri",
			FontSize:    12,
		},
	},
}

func intPtr(v int) *int {
	return &v
}

// Preset returns the built-in defaults for a profile name.
func Preset(name string) (MainConfig, bool) {
	p, ok := presets[name]
	return p, ok
}

// Profiles returns the known profile names.
func Profiles() []string {
	return []string{StrategySentinel, StrategyStride}
}
