// Package features describes the grammar productions that can be switched on
// or off to model the different ECMAScript editions.
package features

import (
	"fmt"
	"sort"
	"strings"
)

// Features is a set of independently togglable grammar features.
// The zero value is the ES2015 grammar.
type Features struct {
	ExponentiationOperator               bool `yaml:"exponentiationOperator"`
	AsyncAwait                           bool `yaml:"asyncAwait"`
	TrailingCommaFunctionCallDeclaration bool `yaml:"trailingCommaFunctionCallDeclaration"`
	ForInInitializer                     bool `yaml:"forInInitializer"`
	AsyncIterationGenerators             bool `yaml:"asyncIterationGenerators"`
	RestSpreadProperties                 bool `yaml:"restSpreadProperties"`
	SkipEscapeSeqCheckInTaggedTemplates  bool `yaml:"skipEscapeSeqCheckInTaggedTemplates"`
	OptionalCatchBinding                 bool `yaml:"optionalCatchBinding"`
	ParagraphLineSeparatorInStrings      bool `yaml:"paragraphLineSeparatorInStrings"`
	DynamicImport                        bool `yaml:"dynamicImport"`
	BigInt                               bool `yaml:"bigInt"`
	ExportedNameInExportAll              bool `yaml:"exportedNameInExportAll"`
	ImportMeta                           bool `yaml:"importMeta"`
	CoalescingOperator                   bool `yaml:"coalescingOperator"`
	OptionalChaining                     bool `yaml:"optionalChaining"`
	LogicalAssignmentOperators           bool `yaml:"logicalAssignmentOperators"`
	NumericLiteralSeparator              bool `yaml:"numericLiteralSeparator"`
	PrivateMethodsAndFields              bool `yaml:"privateMethodsAndFields"`
	ClassFields                          bool `yaml:"classFields"`
	ClassFieldsPrivateIn                 bool `yaml:"classFieldsPrivateIn"`
	TopLevelAwait                        bool `yaml:"topLevelAwait"`
	ClassStaticBlock                     bool `yaml:"classStaticBlock"`
	ArbitraryModuleNSNames               bool `yaml:"arbitraryModuleNSNames"`
}

// flag binds a feature name to its field.
type flag struct {
	name string
	ptr  func(f *Features) *bool
}

// flags lists every feature by name, in edition order.
var flags = []flag{
	{"exponentiationOperator", func(f *Features) *bool { return &f.ExponentiationOperator }},
	{"asyncAwait", func(f *Features) *bool { return &f.AsyncAwait }},
	{"trailingCommaFunctionCallDeclaration", func(f *Features) *bool { return &f.TrailingCommaFunctionCallDeclaration }},
	{"forInInitializer", func(f *Features) *bool { return &f.ForInInitializer }},
	{"asyncIterationGenerators", func(f *Features) *bool { return &f.AsyncIterationGenerators }},
	{"restSpreadProperties", func(f *Features) *bool { return &f.RestSpreadProperties }},
	{"skipEscapeSeqCheckInTaggedTemplates", func(f *Features) *bool { return &f.SkipEscapeSeqCheckInTaggedTemplates }},
	{"optionalCatchBinding", func(f *Features) *bool { return &f.OptionalCatchBinding }},
	{"paragraphLineSeparatorInStrings", func(f *Features) *bool { return &f.ParagraphLineSeparatorInStrings }},
	{"dynamicImport", func(f *Features) *bool { return &f.DynamicImport }},
	{"bigInt", func(f *Features) *bool { return &f.BigInt }},
	{"exportedNameInExportAll", func(f *Features) *bool { return &f.ExportedNameInExportAll }},
	{"importMeta", func(f *Features) *bool { return &f.ImportMeta }},
	{"coalescingOperator", func(f *Features) *bool { return &f.CoalescingOperator }},
	{"optionalChaining", func(f *Features) *bool { return &f.OptionalChaining }},
	{"logicalAssignmentOperators", func(f *Features) *bool { return &f.LogicalAssignmentOperators }},
	{"numericLiteralSeparator", func(f *Features) *bool { return &f.NumericLiteralSeparator }},
	{"privateMethodsAndFields", func(f *Features) *bool { return &f.PrivateMethodsAndFields }},
	{"classFields", func(f *Features) *bool { return &f.ClassFields }},
	{"classFieldsPrivateIn", func(f *Features) *bool { return &f.ClassFieldsPrivateIn }},
	{"topLevelAwait", func(f *Features) *bool { return &f.TopLevelAwait }},
	{"classStaticBlock", func(f *Features) *bool { return &f.ClassStaticBlock }},
	{"arbitraryModuleNSNames", func(f *Features) *bool { return &f.ArbitraryModuleNSNames }},
}

// Names returns the names of all features in edition order.
func Names() []string {
	names := make([]string, len(flags))
	for i, fl := range flags {
		names[i] = fl.name
	}
	return names
}

func lookup(name string) (flag, bool) {
	for _, fl := range flags {
		if strings.EqualFold(fl.name, name) {
			return fl, true
		}
	}
	return flag{}, false
}

// Set toggles the feature called name.
func (f *Features) Set(name string, enabled bool) error {
	fl, ok := lookup(name)
	if !ok {
		return fmt.Errorf("unknown feature %q", name)
	}
	*fl.ptr(f) = enabled
	return nil
}

// Enabled reports whether the feature called name is on. Unknown names are off.
func (f Features) Enabled(name string) bool {
	fl, ok := lookup(name)
	if !ok {
		return false
	}
	return *fl.ptr(&f)
}

// List returns the names of the enabled features.
func (f Features) List() []string {
	var out []string
	for _, fl := range flags {
		if *fl.ptr(&f) {
			out = append(out, fl.name)
		}
	}
	return out
}

// --- Edition presets ---

// ES2015 returns the baseline grammar.
func ES2015() Features {
	return Features{}
}

// ES2016 adds the exponentiation operator.
func ES2016() Features {
	f := ES2015()
	f.ExponentiationOperator = true
	return f
}

// ES2017 adds async functions, trailing commas in calls and parameter lists
// and the legacy for-in initializer.
func ES2017() Features {
	f := ES2016()
	f.AsyncAwait = true
	f.TrailingCommaFunctionCallDeclaration = true
	f.ForInInitializer = true
	return f
}

// ES2018 adds async iteration, object rest/spread and relaxed escapes in
// tagged templates.
func ES2018() Features {
	f := ES2017()
	f.AsyncIterationGenerators = true
	f.RestSpreadProperties = true
	f.SkipEscapeSeqCheckInTaggedTemplates = true
	return f
}

// ES2019 adds optional catch binding and U+2028/U+2029 inside strings.
func ES2019() Features {
	f := ES2018()
	f.OptionalCatchBinding = true
	f.ParagraphLineSeparatorInStrings = true
	return f
}

// ES2020 adds import(), BigInt, export * as ns, import.meta, ?? and ?.
func ES2020() Features {
	f := ES2019()
	f.DynamicImport = true
	f.BigInt = true
	f.ExportedNameInExportAll = true
	f.ImportMeta = true
	f.CoalescingOperator = true
	f.OptionalChaining = true
	return f
}

// ES2021 adds logical assignment and numeric separators.
func ES2021() Features {
	f := ES2020()
	f.LogicalAssignmentOperators = true
	f.NumericLiteralSeparator = true
	return f
}

// ES2022 adds class fields, private members, #x in obj, top-level await,
// static blocks and string module export names.
func ES2022() Features {
	f := ES2021()
	f.PrivateMethodsAndFields = true
	f.ClassFields = true
	f.ClassFieldsPrivateIn = true
	f.TopLevelAwait = true
	f.ClassStaticBlock = true
	f.ArbitraryModuleNSNames = true
	return f
}

// Latest returns every feature enabled.
func Latest() Features {
	return ES2022()
}

var editions = map[string]func() Features{
	"es2015": ES2015,
	"es6":    ES2015,
	"es2016": ES2016,
	"es2017": ES2017,
	"es2018": ES2018,
	"es2019": ES2019,
	"es2020": ES2020,
	"es2021": ES2021,
	"es2022": ES2022,
	"latest": Latest,
}

// ByName returns the preset for an edition name such as "es2020" or "latest".
func ByName(edition string) (Features, error) {
	mk, ok := editions[strings.ToLower(edition)]
	if !ok {
		return Features{}, fmt.Errorf("unknown edition %q (known: %s)", edition, strings.Join(Editions(), ", "))
	}
	return mk(), nil
}

// Editions returns the known edition names, sorted.
func Editions() []string {
	names := make([]string, 0, len(editions))
	for name := range editions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
